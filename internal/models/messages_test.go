package models

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    MessageKind
	}{
		{"network unreachable", 0, "", MsgUnreachable},
		{"unauthorized", http.StatusUnauthorized, "", MsgInvalidCredentials},
		{"unauthorized ignores backend text", http.StatusUnauthorized, "nope", MsgInvalidCredentials},
		{"server throttle", http.StatusTooManyRequests, "", MsgServerThrottled},
		{"internal error", http.StatusInternalServerError, "", MsgServerError},
		{"bad gateway", http.StatusBadGateway, "", MsgServerError},
		{"service unavailable with text", http.StatusServiceUnavailable, "down", MsgServerError},
		{"forbidden with backend text", http.StatusForbidden, "Cuenta desactivada", MsgBackendMessage},
		{"forbidden without text", http.StatusForbidden, "", MsgGenericRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindForStatus(tt.status, tt.message))
		})
	}
}

func TestMessageFor(t *testing.T) {
	assert.Equal(t, "La contraseña debe tener al menos 6 caracteres", MessageFor(MsgPasswordTooShort))
	assert.Equal(t, "Demasiados intentos fallidos. Intenta nuevamente en 15 minutos.", MessageFor(MsgLockedOut, "15 minutos"))
	assert.Empty(t, MessageFor(MsgBackendMessage))
}
