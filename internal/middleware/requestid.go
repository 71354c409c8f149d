package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID assigns each request an X-Request-ID unless the client sent one.
// The id rides on the header so handlers can echo it in error envelopes.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
