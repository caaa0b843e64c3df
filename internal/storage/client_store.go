package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BradenHooton/ajustes/internal/models"
)

// ClientStateRepository is the persistence contract behind ClientStore.
type ClientStateRepository interface {
	Get(ctx context.Context, clientID, key string) (string, error)
	Set(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID, key string) error
}

// defaultOpTimeout bounds each repository call made through a ClientStore
const defaultOpTimeout = 2 * time.Second

// ClientStore adapts a ClientStateRepository to KeyValueStore for a single
// client and request. Repository errors never escape: they are logged and the
// store degrades to "absent" for reads and no-op for writes.
type ClientStore struct {
	ctx       context.Context
	repo      ClientStateRepository
	clientID  string
	logger    *slog.Logger
	opTimeout time.Duration
}

// NewClientStore binds repo to clientID for the lifetime of ctx
func NewClientStore(ctx context.Context, repo ClientStateRepository, clientID string, logger *slog.Logger) *ClientStore {
	return &ClientStore{
		ctx:       ctx,
		repo:      repo,
		clientID:  clientID,
		logger:    logger,
		opTimeout: defaultOpTimeout,
	}
}

func (s *ClientStore) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opTimeout)
	defer cancel()

	value, err := s.repo.Get(ctx, s.clientID, key)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("client state read failed",
				slog.String("key", key),
				slog.Any("error", err))
		}
		return "", false
	}
	return value, true
}

func (s *ClientStore) Set(key, value string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opTimeout)
	defer cancel()

	if err := s.repo.Set(ctx, s.clientID, key, value); err != nil {
		s.logger.Warn("client state write failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
}

func (s *ClientStore) Remove(key string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, s.clientID, key); err != nil {
		s.logger.Warn("client state delete failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
}
