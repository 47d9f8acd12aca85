package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS wraps the whole handler with the process-wide cross-origin allow-list.
// Disallowed origins get no CORS headers, so browsers refuse the response.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
