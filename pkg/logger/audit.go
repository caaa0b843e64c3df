package logger

import (
	"context"
	"log/slog"
	"time"
)

// LoginEvent is one login form submission as seen by the gateway
type LoginEvent struct {
	ClientID  string
	Correo    string
	IPAddress string
	UserAgent string
	Success   bool
	Outcome   string
}

// AuditLogger writes login audit records
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogLoginAttempt records a login submission. The identifier is masked.
func (al *AuditLogger) LogLoginAttempt(ctx context.Context, event LoginEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", "login_attempt"),
		slog.Bool("success", event.Success),
		slog.String("outcome", event.Outcome),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.ClientID != "" {
		attrs = append(attrs, slog.String("client_id", event.ClientID))
	}
	if event.Correo != "" {
		attrs = append(attrs, slog.String("correo", SanitizedEmail(event.Correo)))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}
