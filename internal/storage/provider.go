package storage

import (
	"context"
	"log/slog"
)

// Provider returns the store for one client for the duration of ctx
type Provider func(ctx context.Context, clientID string) KeyValueStore

// MemoryProvider serves every client from m
func MemoryProvider(m *MemoryStore) Provider {
	return func(_ context.Context, clientID string) KeyValueStore {
		return m.ForClient(clientID)
	}
}

// RepositoryProvider binds each request to repo through a ClientStore
func RepositoryProvider(repo ClientStateRepository, logger *slog.Logger) Provider {
	return func(ctx context.Context, clientID string) KeyValueStore {
		return NewClientStore(ctx, repo, clientID, logger)
	}
}
