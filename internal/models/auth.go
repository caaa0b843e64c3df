package models

import "github.com/golang-jwt/jwt/v5"

// LoginCredentials is the body the authentication backend expects on POST /login.
type LoginCredentials struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contraseña"`
}

// AuthResponse is the backend's success payload.
type AuthResponse struct {
	Token string `json:"token"`
}

// BackendErrorBody is the optional error payload returned by the backend.
type BackendErrorBody struct {
	Message string `json:"message"`
}

// TokenClaims are the claims the gateway reads from backend-issued tokens.
// The gateway does not hold the signing key, so they are informational only.
type TokenClaims struct {
	UserID string `json:"id,omitempty"`
	Correo string `json:"correo,omitempty"`
	Rol    string `json:"rol,omitempty"`
	jwt.RegisteredClaims
}
