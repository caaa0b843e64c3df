package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/BradenHooton/ajustes/internal/storage"
	pkghttp "github.com/BradenHooton/ajustes/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks the status and error code and returns the body
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) pkghttp.ErrorResponse {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp
}

// FindCookie returns the named cookie set on the response, or nil
func FindCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockLoginService implements LoginServiceInterface for testing
type MockLoginService struct {
	MountFunc            func(store storage.KeyValueStore) models.FormState
	SubmitFunc           func(ctx context.Context, clientID string, store storage.KeyValueStore, form models.LoginForm) (*models.LoginResult, error)
	LogoutFunc           func(store storage.KeyValueStore)
	LockoutRemainingFunc func(store storage.KeyValueStore) time.Duration
}

func (m *MockLoginService) Mount(store storage.KeyValueStore) models.FormState {
	if m.MountFunc == nil {
		return models.FormState{AttemptsLeft: 5}
	}
	return m.MountFunc(store)
}

func (m *MockLoginService) Submit(ctx context.Context, clientID string, store storage.KeyValueStore, form models.LoginForm) (*models.LoginResult, error) {
	if m.SubmitFunc == nil {
		return nil, &models.LoginError{
			Kind:    models.MsgInvalidCredentials,
			Message: models.MessageFor(models.MsgInvalidCredentials),
			Err:     models.ErrInvalidCredentials,
		}
	}
	return m.SubmitFunc(ctx, clientID, store, form)
}

func (m *MockLoginService) Logout(store storage.KeyValueStore) {
	if m.LogoutFunc != nil {
		m.LogoutFunc(store)
	}
}

func (m *MockLoginService) LockoutRemaining(store storage.KeyValueStore) time.Duration {
	if m.LockoutRemainingFunc == nil {
		return 0
	}
	return m.LockoutRemainingFunc(store)
}
