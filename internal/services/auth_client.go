package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BradenHooton/ajustes/internal/models"
)

// AuthClient authenticates credentials against the backend
type AuthClient interface {
	Login(ctx context.Context, identifier, secret string) (*models.AuthResponse, error)
}

// maxErrorBody caps how much of a backend error response is read
const maxErrorBody = 64 << 10

// HTTPAuthClient calls the backend's POST /login endpoint
type HTTPAuthClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPAuthClient creates a new HTTPAuthClient
func NewHTTPAuthClient(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPAuthClient {
	return &HTTPAuthClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Login posts the credentials and returns the backend token.
// Every failure is a *models.StatusError; Status is 0 when the backend
// could not be reached.
func (c *HTTPAuthClient) Login(ctx context.Context, identifier, secret string) (*models.AuthResponse, error) {
	body, err := json.Marshal(models.LoginCredentials{
		Correo:     identifier,
		Contrasena: secret,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &models.StatusError{Status: 0, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.StatusError{
			Status:  resp.StatusCode,
			Message: readBackendMessage(resp.Body),
		}
	}

	var authResp models.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		c.logger.Error("auth backend returned an undecodable body", slog.Any("error", err))
		return nil, &models.StatusError{Status: http.StatusBadGateway, Err: err}
	}
	if authResp.Token == "" {
		return nil, &models.StatusError{Status: http.StatusBadGateway, Message: "empty token"}
	}

	return &authResp, nil
}

// readBackendMessage extracts the optional "message" field of an error body
func readBackendMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body models.BackendErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}
