package services

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/BradenHooton/ajustes/internal/storage"
)

const (
	// DefaultMaxAttempts is the number of consecutive failures that locks the form
	DefaultMaxAttempts = 5
	// DefaultLockoutDuration is how long a lockout lasts
	DefaultLockoutDuration = 15 * time.Minute
)

// ThrottleConfig holds configuration for the login throttle
type ThrottleConfig struct {
	MaxAttempts     int
	LockoutDuration time.Duration
}

// DefaultThrottleConfig returns the standard 5 attempts / 15 minutes policy
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		MaxAttempts:     DefaultMaxAttempts,
		LockoutDuration: DefaultLockoutDuration,
	}
}

// ThrottleMetrics receives throttle events. All methods must be safe to call
// from concurrent requests.
type ThrottleMetrics interface {
	IncrementFailedAttempts()
	IncrementLockouts(source string)
	IncrementRejectedWhileLocked()
}

type noopThrottleMetrics struct{}

func (noopThrottleMetrics) IncrementFailedAttempts()      {}
func (noopThrottleMetrics) IncrementLockouts(string)      {}
func (noopThrottleMetrics) IncrementRejectedWhileLocked() {}

// LoginThrottle tracks consecutive failed logins for one client and decides
// whether another attempt is allowed.
//
// The store is the single source of truth: every operation re-reads
// loginAttempts and lockoutUntil, so an expired lockout is cleared lazily the
// next time it is looked at. Values that do not parse are treated as absent.
type LoginThrottle struct {
	store   storage.KeyValueStore
	clock   Clock
	config  ThrottleConfig
	logger  *slog.Logger
	metrics ThrottleMetrics
}

// ThrottleOption configures a LoginThrottle
type ThrottleOption func(*LoginThrottle)

// WithThrottleMetrics reports throttle events to m
func WithThrottleMetrics(m ThrottleMetrics) ThrottleOption {
	return func(t *LoginThrottle) {
		if m != nil {
			t.metrics = m
		}
	}
}

// NewLoginThrottle creates a LoginThrottle over store and normalizes the
// persisted state: a lockout window that has already elapsed is cleared.
func NewLoginThrottle(store storage.KeyValueStore, clock Clock, config ThrottleConfig, logger *slog.Logger, opts ...ThrottleOption) *LoginThrottle {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.LockoutDuration <= 0 {
		config.LockoutDuration = DefaultLockoutDuration
	}
	if clock == nil {
		clock = SystemClock{}
	}

	t := &LoginThrottle{
		store:   store,
		clock:   clock,
		config:  config,
		logger:  logger,
		metrics: noopThrottleMetrics{},
	}
	for _, opt := range opts {
		opt(t)
	}

	t.load()
	return t
}

// CanAttempt reports whether the throttle is open
func (t *LoginThrottle) CanAttempt() bool {
	_, lockedUntil := t.load()
	if lockedUntil != nil {
		t.metrics.IncrementRejectedWhileLocked()
		return false
	}
	return true
}

// State returns the current state machine position
func (t *LoginThrottle) State() models.ThrottleState {
	if _, lockedUntil := t.load(); lockedUntil != nil {
		return models.ThrottleLocked
	}
	return models.ThrottleOpen
}

// RemainingLockoutText describes how long the lockout still lasts.
// It returns "" when the throttle is open.
func (t *LoginThrottle) RemainingLockoutText() string {
	_, lockedUntil := t.load()
	if lockedUntil == nil {
		return ""
	}
	return FormatRemaining(lockedUntil.Sub(t.clock.Now()))
}

// Snapshot returns the attempts, window and remaining text in one read
func (t *LoginThrottle) Snapshot() models.ThrottleSnapshot {
	attempts, lockedUntil := t.load()
	snap := models.ThrottleSnapshot{
		State:       models.ThrottleOpen,
		Attempts:    attempts,
		LockedUntil: lockedUntil,
	}
	if lockedUntil != nil {
		snap.State = models.ThrottleLocked
		snap.RemainingText = FormatRemaining(lockedUntil.Sub(t.clock.Now()))
	}
	return snap
}

// AttemptsLeft returns how many failures remain before a lockout
func (t *LoginThrottle) AttemptsLeft() int {
	attempts, lockedUntil := t.load()
	if lockedUntil != nil {
		return 0
	}
	return max(t.config.MaxAttempts-attempts, 0)
}

// RecordFailure counts a rejected credential. The failure that reaches
// MaxAttempts opens a lockout window. Failures reported while locked leave
// the window untouched.
func (t *LoginThrottle) RecordFailure() {
	attempts, lockedUntil := t.load()
	if lockedUntil != nil {
		return
	}

	attempts++
	t.metrics.IncrementFailedAttempts()

	if attempts < t.config.MaxAttempts {
		t.store.Set(models.KeyLoginAttempts, strconv.Itoa(attempts))
		return
	}

	until := t.clock.Now().Add(t.config.LockoutDuration)
	t.persist(attempts, until)
	t.metrics.IncrementLockouts("local")
	t.logger.Warn("login locked after repeated failures",
		slog.Int("failed_attempts", attempts),
		slog.Duration("lockout_duration", t.config.LockoutDuration))
}

// RecordSuccess resets the throttle to its initial open state
func (t *LoginThrottle) RecordSuccess() {
	t.reset()
}

// ForceLockout locks immediately, regardless of the local counter. Used when
// the backend itself reports too many requests.
func (t *LoginThrottle) ForceLockout() {
	attempts, _ := t.load()
	until := t.clock.Now().Add(t.config.LockoutDuration)
	t.persist(attempts, until)
	t.metrics.IncrementLockouts("server")
	t.logger.Warn("login locked by server throttle",
		slog.Int("failed_attempts", attempts),
		slog.Duration("lockout_duration", t.config.LockoutDuration))
}

// load reads the persisted counter and window, clearing both if the window
// has elapsed. lockedUntil is nil when the throttle is open.
func (t *LoginThrottle) load() (attempts int, lockedUntil *time.Time) {
	attempts = t.readAttempts()
	lockedUntil = t.readLockout()

	if lockedUntil != nil && !t.clock.Now().Before(*lockedUntil) {
		t.reset()
		return 0, nil
	}
	return attempts, lockedUntil
}

func (t *LoginThrottle) readAttempts() int {
	raw, ok := t.store.Get(models.KeyLoginAttempts)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (t *LoginThrottle) readLockout() *time.Time {
	raw, ok := t.store.Get(models.KeyLockoutUntil)
	if !ok {
		return nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return nil
	}
	until := time.UnixMilli(ms)
	return &until
}

func (t *LoginThrottle) persist(attempts int, until time.Time) {
	t.store.Set(models.KeyLoginAttempts, strconv.Itoa(attempts))
	t.store.Set(models.KeyLockoutUntil, strconv.FormatInt(until.UnixMilli(), 10))
}

func (t *LoginThrottle) reset() {
	t.store.Set(models.KeyLoginAttempts, "0")
	t.store.Remove(models.KeyLockoutUntil)
}

// FormatRemaining renders a remaining lockout duration for the login form.
// Anything under a minute is reported as "menos de 1 minuto". Up to two
// minutes the count is rounded up, so a partial second minute reads as 2;
// longer windows are rounded to the nearest minute (125s reads as 2, a full
// window as 15).
func FormatRemaining(d time.Duration) string {
	if d < time.Minute {
		return "menos de 1 minuto"
	}
	var minutes int
	if d <= 2*time.Minute {
		minutes = int(math.Ceil(d.Minutes()))
	} else {
		minutes = int(math.Round(d.Minutes()))
	}
	if minutes == 1 {
		return "1 minuto"
	}
	return fmt.Sprintf("%d minutos", minutes)
}
