package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/BradenHooton/ajustes/internal/storage"
	pkglogger "github.com/BradenHooton/ajustes/pkg/logger"
)

// LoginMetrics receives login and throttle events
type LoginMetrics interface {
	ThrottleMetrics
	IncrementLoginOutcome(outcome string)
}

type noopLoginMetrics struct{ noopThrottleMetrics }

func (noopLoginMetrics) IncrementLoginOutcome(string) {}

// guardEntry tracks a client's form guard and the requests holding it
type guardEntry struct {
	guard *FormSubmissionGuard
	refs  int
}

// LoginService drives the login form: it pre-fills the form, gates
// submissions through the guard and throttle, calls the backend and applies
// the outcome to the throttle, the remembered identifier and the session token.
type LoginService struct {
	authClient     AuthClient
	throttleConfig ThrottleConfig
	clock          Clock
	logger         *slog.Logger
	metrics        LoginMetrics

	mu     sync.Mutex
	guards map[string]*guardEntry
}

// NewLoginService creates a new LoginService
func NewLoginService(authClient AuthClient, throttleConfig ThrottleConfig, clock Clock, logger *slog.Logger) *LoginService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &LoginService{
		authClient:     authClient,
		throttleConfig: throttleConfig,
		clock:          clock,
		logger:         logger,
		metrics:        noopLoginMetrics{},
		guards:         make(map[string]*guardEntry),
	}
}

// SetMetrics enables metrics reporting
func (s *LoginService) SetMetrics(m LoginMetrics) {
	if m != nil {
		s.metrics = m
	}
}

// Throttle returns the throttle for a client's store
func (s *LoginService) Throttle(store storage.KeyValueStore) *LoginThrottle {
	return NewLoginThrottle(store, s.clock, s.throttleConfig, s.logger, WithThrottleMetrics(s.metrics))
}

// Mount returns the initial state of the login form for a client
func (s *LoginService) Mount(store storage.KeyValueStore) models.FormState {
	correo, remembered := NewCredentialRemember(store).Load()
	throttle := s.Throttle(store)
	snap := throttle.Snapshot()

	state := models.FormState{
		Correo:       correo,
		RememberMe:   remembered,
		AttemptsLeft: throttle.AttemptsLeft(),
	}
	if snap.State == models.ThrottleLocked {
		state.Locked = true
		state.LockoutText = snap.RemainingText
	}
	return state
}

// Submit runs one login attempt for clientID. Rejections are returned as
// *models.LoginError; only a cancelled ctx yields a plain error.
func (s *LoginService) Submit(ctx context.Context, clientID string, store storage.KeyValueStore, form models.LoginForm) (*models.LoginResult, error) {
	guard := s.acquireGuard(clientID)
	defer s.releaseGuard(clientID)

	throttle := s.Throttle(store)
	if err := guard.Begin(form, throttle); err != nil {
		var loginErr *models.LoginError
		if errors.As(err, &loginErr) {
			s.metrics.IncrementLoginOutcome(string(loginErr.Kind))
		}
		return nil, err
	}
	defer guard.Finish()

	correo := strings.TrimSpace(form.Correo)
	resp, err := s.authClient.Login(ctx, correo, form.Password)
	if err != nil {
		loginErr := s.handleLoginError(ctx, err, throttle, correo)
		if loginErr == nil {
			return nil, err
		}
		guard.Fail(loginErr.Message)
		s.metrics.IncrementLoginOutcome(string(loginErr.Kind))
		return nil, loginErr
	}

	return s.handleLoginSuccess(resp, store, throttle, form, correo), nil
}

// LockoutRemaining returns how long the client stays locked, or 0 when open
func (s *LoginService) LockoutRemaining(store storage.KeyValueStore) time.Duration {
	snap := s.Throttle(store).Snapshot()
	if snap.State != models.ThrottleLocked || snap.LockedUntil == nil {
		return 0
	}
	return snap.LockedUntil.Sub(s.clock.Now())
}

// Logout forgets the session token stored for the client
func (s *LoginService) Logout(store storage.KeyValueStore) {
	store.Remove(models.KeySessionToken)
}

func (s *LoginService) handleLoginSuccess(resp *models.AuthResponse, store storage.KeyValueStore, throttle *LoginThrottle, form models.LoginForm, correo string) *models.LoginResult {
	throttle.RecordSuccess()

	remember := NewCredentialRemember(store)
	if form.RememberMe {
		remember.Save(correo)
	} else {
		remember.Clear()
	}

	store.Set(models.KeySessionToken, resp.Token)

	s.metrics.IncrementLoginOutcome(string(models.MsgLoginSucceeded))
	s.logger.Info("login succeeded", slog.String("correo", pkglogger.SanitizedEmail(correo)))

	return &models.LoginResult{
		Token:   resp.Token,
		Message: models.MessageFor(models.MsgLoginSucceeded),
	}
}

// handleLoginError applies a backend failure to the throttle and builds the
// user-facing error. It returns nil when ctx was cancelled, in which case
// nothing is recorded.
func (s *LoginService) handleLoginError(ctx context.Context, err error, throttle *LoginThrottle, correo string) *models.LoginError {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}

	status := 0
	backendMessage := ""
	var statusErr *models.StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.Status
		backendMessage = statusErr.Message
	}

	kind := models.KindForStatus(status, backendMessage)
	loginErr := &models.LoginError{Kind: kind}

	switch kind {
	case models.MsgInvalidCredentials:
		throttle.RecordFailure()
		loginErr.Message = models.MessageFor(kind)
		loginErr.Err = models.ErrInvalidCredentials
	case models.MsgServerThrottled:
		throttle.ForceLockout()
		loginErr.Message = models.MessageFor(kind, throttle.RemainingLockoutText())
		loginErr.Err = models.ErrRateLimitExceeded
	case models.MsgUnreachable, models.MsgServerError:
		loginErr.Message = models.MessageFor(kind)
		loginErr.Err = models.ErrBackendUnavailable
	case models.MsgBackendMessage:
		loginErr.Message = backendMessage
		loginErr.Err = models.ErrBackendRejected
	default:
		loginErr.Message = models.MessageFor(models.MsgGenericRejected)
		loginErr.Err = models.ErrBackendRejected
	}

	s.logger.Warn("login failed",
		slog.String("correo", pkglogger.SanitizedEmail(correo)),
		slog.Int("backend_status", status),
		slog.String("kind", string(kind)),
		slog.Any("error", err))

	return loginErr
}

func (s *LoginService) acquireGuard(clientID string) *FormSubmissionGuard {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.guards[clientID]
	if !ok {
		entry = &guardEntry{guard: NewFormSubmissionGuard()}
		s.guards[clientID] = entry
	}
	entry.refs++
	return entry.guard
}

func (s *LoginService) releaseGuard(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.guards[clientID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(s.guards, clientID)
	}
}
