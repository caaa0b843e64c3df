package middleware

import (
	"net/http"
	"time"

	"github.com/BradenHooton/ajustes/internal/models"
	pkghttp "github.com/BradenHooton/ajustes/pkg/http"
	"github.com/go-chi/httprate"
)

type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultLoginRateLimit allows 20 login submissions per IP per minute
func DefaultLoginRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 20,
	}
}

// RateLimitByIP limits requests per client IP. Rejections use the same
// JSON body and error code as a backend throttle response.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	if config.RequestsPerMinute <= 0 {
		config = DefaultLoginRateLimit()
	}

	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "rate_limit_exceeded",
				models.MessageFor(models.MsgServerThrottled, "1 minuto"), 60)
		}),
	)
}
