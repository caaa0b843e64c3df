package logger

import "strings"

// SanitizedEmail masks an email address for logging (e.g., "a***@*******.com")
func SanitizedEmail(email string) string {
	parts := strings.Split(strings.TrimSpace(email), "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "[invalid-email]"
	}

	local := parts[0]
	if len(local) > 1 {
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}

	// Keep only the top-level segment of the domain
	labels := strings.Split(parts[1], ".")
	for i := 0; i < len(labels)-1; i++ {
		labels[i] = strings.Repeat("*", len(labels[i]))
	}

	return local + "@" + strings.Join(labels, ".")
}

// sensitiveParams are query parameters that cause the whole query string to
// be redacted in request logs
var sensitiveParams = []string{"password", "contraseña", "correo", "email", "token", "secret", "client_id"}

// SanitizeQueryString reports whether rawQuery mentions a sensitive parameter
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
