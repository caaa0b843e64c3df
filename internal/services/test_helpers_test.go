package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/BradenHooton/ajustes/internal/storage"
)

// fakeClock is a manually advanced Clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore() storage.KeyValueStore {
	return storage.NewMemoryStore().ForClient("client-1")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockAuthClient implements services.AuthClient for testing
type MockAuthClient struct {
	LoginFunc func(ctx context.Context, identifier, secret string) (*models.AuthResponse, error)

	mu    sync.Mutex
	calls int
}

func (m *MockAuthClient) Login(ctx context.Context, identifier, secret string) (*models.AuthResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, secret)
	}
	return &models.AuthResponse{Token: "token-123"}, nil
}

func (m *MockAuthClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// spyAttempter records whether the guard consulted the throttle
type spyAttempter struct {
	allow  bool
	calls  int
	remain string
}

func (s *spyAttempter) CanAttempt() bool {
	s.calls++
	return s.allow
}

func (s *spyAttempter) RemainingLockoutText() string {
	return s.remain
}

// recordingMetrics counts metric events
type recordingMetrics struct {
	mu       sync.Mutex
	failures int
	lockouts map[string]int
	rejected int
	outcomes map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{lockouts: map[string]int{}, outcomes: map[string]int{}}
}

func (r *recordingMetrics) IncrementFailedAttempts() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *recordingMetrics) IncrementLockouts(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockouts[source]++
}

func (r *recordingMetrics) IncrementRejectedWhileLocked() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
}

func (r *recordingMetrics) IncrementLoginOutcome(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}
