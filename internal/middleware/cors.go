package middleware

import (
	"net/http"

	"orgflow-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS builds the cross-origin layer from the configured allowlists.
// Credentials are allowed so browser clients can carry the bearer token.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
