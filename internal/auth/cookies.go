package auth

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// ClientIDCookie identifies a browser across visits
	ClientIDCookie = "client_id"
	// SessionCookie carries the backend token after a successful login
	SessionCookie = "session_token"

	clientIDMaxAge = 365 * 24 * 60 * 60
)

// CookieConfig holds cookie configuration settings
type CookieConfig struct {
	Domain   string // Empty string = current host only
	Secure   bool   // HTTPS only
	SameSite string // "strict", "lax", or "none"
}

// EnsureClientID returns the request's client id, issuing a new one in a
// cookie when the request has none or carries a malformed value.
func EnsureClientID(w http.ResponseWriter, r *http.Request, config CookieConfig) string {
	if id, ok := GetClientID(r); ok {
		return id
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientIDCookie,
		Value:    id,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Now().Add(clientIDMaxAge * time.Second),
		MaxAge:   clientIDMaxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	})
	return id
}

// GetClientID returns the client id cookie if it holds a valid UUID
func GetClientID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(ClientIDCookie)
	if err != nil {
		return "", false
	}
	parsed, err := uuid.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// SetSessionCookie stores the backend token in an httpOnly cookie.
// maxAge <= 0 produces a browser-session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int, config CookieConfig) {
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Domain:   config.Domain,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	}
	if maxAge > 0 {
		cookie.MaxAge = maxAge
		cookie.Expires = time.Now().Add(time.Duration(maxAge) * time.Second)
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie clears the session cookie
func ClearSessionCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	})
}

// parseSameSite converts string to http.SameSite constant
func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
