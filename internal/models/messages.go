package models

import (
	"fmt"
	"net/http"
)

// MessageKind tags a user-facing login message independently of its text.
type MessageKind string

const (
	MsgNone               MessageKind = ""
	MsgMissingFields      MessageKind = "missing_fields"
	MsgInvalidEmail       MessageKind = "invalid_email"
	MsgPasswordTooShort   MessageKind = "password_too_short"
	MsgPasswordForbidden  MessageKind = "password_forbidden_chars"
	MsgInvalidCredentials MessageKind = "invalid_credentials"
	MsgLockedOut          MessageKind = "locked_out"
	MsgServerThrottled    MessageKind = "server_throttled"
	MsgUnreachable        MessageKind = "unreachable"
	MsgServerError        MessageKind = "server_error"
	MsgBackendMessage     MessageKind = "backend_message"
	MsgGenericRejected    MessageKind = "generic_rejected"
	MsgInProgress         MessageKind = "in_progress"
	MsgLoginSucceeded     MessageKind = "login_succeeded"
)

// MinPasswordLength is the shortest secret the login form accepts.
const MinPasswordLength = 6

var messageText = map[MessageKind]string{
	MsgMissingFields:      "Por favor ingresa todos los campos",
	MsgInvalidEmail:       "Por favor ingresa un correo electrónico válido",
	MsgPasswordTooShort:   fmt.Sprintf("La contraseña debe tener al menos %d caracteres", MinPasswordLength),
	MsgPasswordForbidden:  "La contraseña contiene caracteres no permitidos",
	MsgInvalidCredentials: "Credenciales incorrectas. Verifica tu email y contraseña.",
	MsgLockedOut:          "Demasiados intentos fallidos. Intenta nuevamente en %s.",
	MsgServerThrottled:    "Demasiados intentos. Espera %s antes de intentar nuevamente.",
	MsgUnreachable:        "No se pudo conectar al servidor. Verifica tu conexión.",
	MsgServerError:        "Error interno del servidor. Intenta más tarde.",
	MsgGenericRejected:    "Credenciales inválidas",
	MsgInProgress:         "Ya hay un inicio de sesión en curso.",
	MsgLoginSucceeded:     "Inicio de sesión exitoso. Redirigiendo...",
}

// statusKinds maps exact backend statuses to message kinds. Statuses not
// listed fall through to the range rules in KindForStatus.
var statusKinds = map[int]MessageKind{
	0:                              MsgUnreachable,
	http.StatusUnauthorized:        MsgInvalidCredentials,
	http.StatusTooManyRequests:     MsgServerThrottled,
	http.StatusInternalServerError: MsgServerError,
}

// KindForStatus returns the message kind for a backend status code.
// backendMessage is used for statuses without a dedicated kind.
func KindForStatus(status int, backendMessage string) MessageKind {
	if kind, ok := statusKinds[status]; ok {
		return kind
	}
	if status >= 500 {
		return MsgServerError
	}
	if backendMessage != "" {
		return MsgBackendMessage
	}
	return MsgGenericRejected
}

// MessageFor renders the text of a message kind. args fill the kinds that
// carry a placeholder (the lockout kinds take the remaining-time text).
func MessageFor(kind MessageKind, args ...any) string {
	text, ok := messageText[kind]
	if !ok {
		return ""
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}
