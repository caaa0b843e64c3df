package services

import (
	"sync"

	"github.com/BradenHooton/ajustes/internal/models"
)

// Attempter is the part of LoginThrottle the guard consults
type Attempter interface {
	CanAttempt() bool
	RemainingLockoutText() string
}

// FormSubmissionGuard holds the state of one login form: the submitted
// values, the last error shown and whether a submission is outstanding.
// It lives in memory only.
type FormSubmissionGuard struct {
	mu         sync.Mutex
	form       models.LoginForm
	lastError  string
	submitting bool
}

// NewFormSubmissionGuard creates an idle guard
func NewFormSubmissionGuard() *FormSubmissionGuard {
	return &FormSubmissionGuard{}
}

// Begin validates form and, when valid, asks throttle whether an attempt is
// allowed. On success the guard is left submitting until Finish is called.
// Any rejection is returned as a *models.LoginError and leaves the guard idle,
// except ErrSubmissionInProgress which leaves the outstanding submission alone.
func (g *FormSubmissionGuard) Begin(form models.LoginForm, throttle Attempter) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.submitting {
		return &models.LoginError{
			Kind:    models.MsgInProgress,
			Message: models.MessageFor(models.MsgInProgress),
			Err:     models.ErrSubmissionInProgress,
		}
	}

	g.form = form
	g.lastError = ""

	if kind, err := ValidateLoginForm(form.Correo, form.Password); err != nil {
		g.lastError = models.MessageFor(kind)
		return &models.LoginError{Kind: kind, Message: g.lastError, Err: err}
	}

	g.submitting = true
	if !throttle.CanAttempt() {
		g.submitting = false
		g.lastError = models.MessageFor(models.MsgLockedOut, throttle.RemainingLockoutText())
		return &models.LoginError{
			Kind:    models.MsgLockedOut,
			Message: g.lastError,
			Err:     models.ErrLockedOut,
		}
	}

	return nil
}

// Finish marks the outstanding submission as complete
func (g *FormSubmissionGuard) Finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitting = false
}

// Fail records msg as the last error shown to the user
func (g *FormSubmissionGuard) Fail(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastError = msg
}

// Submitting reports whether a submission is outstanding
func (g *FormSubmissionGuard) Submitting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitting
}

// LastError returns the last message shown to the user
func (g *FormSubmissionGuard) LastError() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastError
}

// Form returns the values of the last submission
func (g *FormSubmissionGuard) Form() models.LoginForm {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.form
}
