package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/vancomm/sweeper/internal/config"
)

// Cors allows every origin in development and the configured ones
// otherwise.
func Cors(c *config.Config) Middleware {
	options := cors.Options{
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
	if c.Development() {
		options.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	return cors.New(options).Handler
}
