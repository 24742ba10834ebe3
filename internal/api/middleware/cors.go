package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORS creates a new CORS middleware with the given allowed origins
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			"X-Request-Id",
		},
		ExposedHeaders: []string{"Content-Type", "X-Request-Id"},
		MaxAge:         300,
	})
}
