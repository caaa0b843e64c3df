package routes

import (
	"net/http"

	"github.com/BradenHooton/ajustes/internal/handlers"
	"github.com/BradenHooton/ajustes/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	loginHandler *handlers.LoginHandler,
	health http.HandlerFunc,
	metricsHandler http.Handler,
	rateLimit middleware.RateLimitConfig,
) {
	router.Get("/health", health)
	router.Method(http.MethodGet, "/metrics", metricsHandler)

	router.Get("/login", loginHandler.Form)
	router.With(middleware.RateLimitByIP(rateLimit)).Post("/login", loginHandler.Login)
	router.Post("/logout", loginHandler.Logout)
}
