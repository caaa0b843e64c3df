package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/BradenHooton/ajustes/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockClientStateRepository implements storage.ClientStateRepository for testing
type MockClientStateRepository struct {
	GetFunc    func(ctx context.Context, clientID, key string) (string, error)
	SetFunc    func(ctx context.Context, clientID, key, value string) error
	DeleteFunc func(ctx context.Context, clientID, key string) error
}

func (m *MockClientStateRepository) Get(ctx context.Context, clientID, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, clientID, key)
	}
	return "", models.ErrNotFound
}

func (m *MockClientStateRepository) Set(ctx context.Context, clientID, key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, clientID, key, value)
	}
	return nil
}

func (m *MockClientStateRepository) Delete(ctx context.Context, clientID, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, clientID, key)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryStore_ClientsAreIsolated(t *testing.T) {
	store := storage.NewMemoryStore()
	a := store.ForClient("a")
	b := store.ForClient("b")

	a.Set("loginAttempts", "3")

	v, ok := a.Get("loginAttempts")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = b.Get("loginAttempts")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_RemoveDropsEmptyClient(t *testing.T) {
	store := storage.NewMemoryStore()
	c := store.ForClient("a")

	c.Set("k", "v")
	c.Remove("k")
	c.Remove("missing")

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_DeleteStale(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := storage.NewMemoryStore()
	store.SetClock(func() time.Time { return now })

	store.ForClient("old").Set("rememberedEmail", "old@example.com")
	store.ForClient("touched").Set("loginAttempts", "1")

	now = now.Add(40 * 24 * time.Hour)
	store.ForClient("touched").Set("loginAttempts", "2")
	store.ForClient("new").Set("loginAttempts", "1")

	deleted, err := store.DeleteStale(context.Background(), now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, 2, store.Len())

	_, ok := store.ForClient("old").Get("rememberedEmail")
	assert.False(t, ok)
	v, ok := store.ForClient("touched").Get("loginAttempts")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestUnavailableStore(t *testing.T) {
	var s storage.KeyValueStore = storage.UnavailableStore{}
	s.Set("k", "v")
	_, ok := s.Get("k")
	assert.False(t, ok)
	s.Remove("k")
}

func TestClientStore_PassesThrough(t *testing.T) {
	var setKey, setValue, deleted string
	repo := &MockClientStateRepository{
		GetFunc: func(ctx context.Context, clientID, key string) (string, error) {
			assert.Equal(t, "client-1", clientID)
			return "someone@example.com", nil
		},
		SetFunc: func(ctx context.Context, clientID, key, value string) error {
			setKey, setValue = key, value
			return nil
		},
		DeleteFunc: func(ctx context.Context, clientID, key string) error {
			deleted = key
			return nil
		},
	}
	s := storage.NewClientStore(context.Background(), repo, "client-1", discardLogger())

	v, ok := s.Get("rememberedEmail")
	assert.True(t, ok)
	assert.Equal(t, "someone@example.com", v)

	s.Set("loginAttempts", "2")
	assert.Equal(t, "loginAttempts", setKey)
	assert.Equal(t, "2", setValue)

	s.Remove("lockoutUntil")
	assert.Equal(t, "lockoutUntil", deleted)
}

func TestClientStore_SwallowsRepositoryErrors(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &MockClientStateRepository{
		GetFunc:    func(ctx context.Context, clientID, key string) (string, error) { return "", boom },
		SetFunc:    func(ctx context.Context, clientID, key, value string) error { return boom },
		DeleteFunc: func(ctx context.Context, clientID, key string) error { return boom },
	}
	s := storage.NewClientStore(context.Background(), repo, "client-1", discardLogger())

	_, ok := s.Get("loginAttempts")
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		s.Set("loginAttempts", "1")
		s.Remove("loginAttempts")
	})
}

func TestClientStore_NotFoundIsAbsent(t *testing.T) {
	s := storage.NewClientStore(context.Background(), &MockClientStateRepository{}, "client-1", discardLogger())

	_, ok := s.Get("token")
	assert.False(t, ok)
}
