package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPostgresError(t *testing.T) {
	other := errors.New("boom")

	assert.NoError(t, MapPostgresError(nil))
	assert.ErrorIs(t, MapPostgresError(pgx.ErrNoRows), models.ErrNotFound)
	assert.ErrorIs(t, MapPostgresError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), models.ErrNotFound)
	assert.ErrorIs(t, MapPostgresError(&pgconn.PgError{Code: "23502"}), models.ErrBadRequest)
	assert.ErrorIs(t, MapPostgresError(&pgconn.PgError{Code: "22001"}), models.ErrBadRequest)
	assert.Equal(t, other, MapPostgresError(other))
}

func TestGooseLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := gooseLogger{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	l.Printf("OK   %s (%s)\n", "00001_create_client_state.sql", "12ms")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "OK   00001_create_client_state.sql (12ms)", entry["msg"])
	assert.Equal(t, "goose", entry["component"])
}
