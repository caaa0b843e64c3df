package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/ajustes/internal/database"
)

// ClientStateRepository persists the per-client key/value pairs the login
// flow keeps between requests.
type ClientStateRepository struct {
	db *database.DB
}

func NewClientStateRepository(db *database.DB) *ClientStateRepository {
	return &ClientStateRepository{db: db}
}

// Get returns models.ErrNotFound when the key has never been written
func (r *ClientStateRepository) Get(ctx context.Context, clientID, key string) (string, error) {
	query := `
		SELECT value FROM client_state
		WHERE client_id = $1 AND key = $2
	`

	var value string
	err := r.db.Pool.QueryRow(ctx, query, clientID, key).Scan(&value)
	if err != nil {
		return "", database.MapPostgresError(err)
	}

	return value, nil
}

func (r *ClientStateRepository) Set(ctx context.Context, clientID, key, value string) error {
	query := `
		INSERT INTO client_state (client_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (client_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.db.Pool.Exec(ctx, query, clientID, key, value); err != nil {
		return fmt.Errorf("failed to set client state %q: %w", key, database.MapPostgresError(err))
	}
	return nil
}

// Delete is a no-op for keys that do not exist
func (r *ClientStateRepository) Delete(ctx context.Context, clientID, key string) error {
	query := `DELETE FROM client_state WHERE client_id = $1 AND key = $2`

	if _, err := r.db.Pool.Exec(ctx, query, clientID, key); err != nil {
		return fmt.Errorf("failed to delete client state %q: %w", key, database.MapPostgresError(err))
	}
	return nil
}

// DeleteStale removes rows not written since olderThan
func (r *ClientStateRepository) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM client_state WHERE updated_at < $1`

	result, err := r.db.Pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale client state: %w", database.MapPostgresError(err))
	}

	return result.RowsAffected(), nil
}
