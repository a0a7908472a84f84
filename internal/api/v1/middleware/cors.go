package middleware

import (
	"net/http"
)

const (
	allowedOrigin  = "*"
	allowedHeaders = "Content-Type, Authorization"
	allowedMethods = "GET, POST, OPTIONS"
)

// CORS opens the API to browser clients on any origin and answers
// preflight requests directly.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", allowedOrigin)
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Allow-Methods", allowedMethods)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
