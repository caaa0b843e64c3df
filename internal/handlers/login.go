package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/BradenHooton/ajustes/internal/auth"
	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/BradenHooton/ajustes/internal/storage"
	pkghttp "github.com/BradenHooton/ajustes/pkg/http"
	pkglogger "github.com/BradenHooton/ajustes/pkg/logger"
)

// maxLoginBodyBytes bounds the login request body
const maxLoginBodyBytes = 8 << 10

// LoginServiceInterface defines the login form operations the handler needs
type LoginServiceInterface interface {
	Mount(store storage.KeyValueStore) models.FormState
	Submit(ctx context.Context, clientID string, store storage.KeyValueStore, form models.LoginForm) (*models.LoginResult, error)
	Logout(store storage.KeyValueStore)
	LockoutRemaining(store storage.KeyValueStore) time.Duration
}

// LoginHandler serves the login form endpoints
type LoginHandler struct {
	service LoginServiceInterface
	stores  storage.Provider
	tokens  *auth.TokenInspector
	cookies auth.CookieConfig
	audit   *pkglogger.AuditLogger
	logger  *slog.Logger
}

func NewLoginHandler(
	service LoginServiceInterface,
	stores storage.Provider,
	tokens *auth.TokenInspector,
	cookies auth.CookieConfig,
	audit *pkglogger.AuditLogger,
	logger *slog.Logger,
) *LoginHandler {
	return &LoginHandler{
		service: service,
		stores:  stores,
		tokens:  tokens,
		cookies: cookies,
		audit:   audit,
		logger:  logger,
	}
}

// Form returns the state the login form mounts with
// @Summary Login form state
// @Produce json
// @Success 200 {object} models.FormState
// @Router /login [get]
func (h *LoginHandler) Form(w http.ResponseWriter, r *http.Request) {
	clientID := auth.EnsureClientID(w, r, h.cookies)
	state := h.service.Mount(h.stores(r.Context(), clientID))
	pkghttp.WriteJSON(w, http.StatusOK, state)
}

// Login submits the login form
// @Summary Submit login form
// @Accept json
// @Param request body models.LoginForm true "Login form"
// @Produce json
// @Success 200 {object} models.LoginResult
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 409 {object} pkghttp.ErrorResponse
// @Failure 429 {object} pkghttp.ErrorResponse
// @Failure 502 {object} pkghttp.ErrorResponse
// @Router /login [post]
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	clientID := auth.EnsureClientID(w, r, h.cookies)
	store := h.stores(r.Context(), clientID)

	var form models.LoginForm
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		pkghttp.WriteBadRequest(w, "Solicitud inválida")
		return
	}

	result, err := h.service.Submit(r.Context(), clientID, store, form)

	event := pkglogger.LoginEvent{
		ClientID:  clientID,
		Correo:    form.Correo,
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
		Success:   err == nil,
		Outcome:   string(models.MsgLoginSucceeded),
	}

	if err != nil {
		var loginErr *models.LoginError
		if errors.As(err, &loginErr) {
			event.Outcome = string(loginErr.Kind)
		} else {
			event.Outcome = "cancelled"
		}
		h.audit.LogLoginAttempt(r.Context(), event)
		h.writeLoginError(w, store, err)
		return
	}

	h.audit.LogLoginAttempt(r.Context(), event)
	auth.SetSessionCookie(w, result.Token, h.tokens.SessionMaxAge(result.Token), h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// Logout forgets the client's session token
// @Summary Logout
// @Success 204
// @Router /logout [post]
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if clientID, ok := auth.GetClientID(r); ok {
		h.service.Logout(h.stores(r.Context(), clientID))
	}
	auth.ClearSessionCookie(w, h.cookies)
	w.WriteHeader(http.StatusNoContent)
}

func (h *LoginHandler) writeLoginError(w http.ResponseWriter, store storage.KeyValueStore, err error) {
	var loginErr *models.LoginError
	if !errors.As(err, &loginErr) {
		// request cancelled or timed out before the backend answered
		h.logger.Info("login submission abandoned", slog.Any("error", err))
		pkghttp.WriteError(w, http.StatusGatewayTimeout, "backend_timeout", models.MessageFor(models.MsgUnreachable))
		return
	}

	switch {
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteError(w, http.StatusBadRequest, "validation_error", loginErr.Message)
	case errors.Is(err, models.ErrSubmissionInProgress):
		pkghttp.WriteError(w, http.StatusConflict, "submission_in_progress", loginErr.Message)
	case errors.Is(err, models.ErrLockedOut):
		pkghttp.WriteTooManyRequests(w, "locked_out", loginErr.Message, h.retryAfter(store))
	case errors.Is(err, models.ErrRateLimitExceeded):
		pkghttp.WriteTooManyRequests(w, "rate_limit_exceeded", loginErr.Message, h.retryAfter(store))
	case errors.Is(err, models.ErrInvalidCredentials):
		pkghttp.WriteError(w, http.StatusUnauthorized, "invalid_credentials", loginErr.Message)
	case errors.Is(err, models.ErrBackendRejected):
		pkghttp.WriteError(w, http.StatusUnauthorized, "login_rejected", loginErr.Message)
	case errors.Is(err, models.ErrBackendUnavailable):
		pkghttp.WriteBadGateway(w, loginErr.Message)
	default:
		h.logger.Error("unmapped login error", slog.Any("error", err))
		pkghttp.WriteInternalError(w, models.MessageFor(models.MsgServerError))
	}
}

// retryAfter rounds the remaining lockout up to whole seconds
func (h *LoginHandler) retryAfter(store storage.KeyValueStore) int {
	remaining := h.service.LockoutRemaining(store)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Seconds()))
}
