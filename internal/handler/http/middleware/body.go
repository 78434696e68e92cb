package middleware

import (
	"mime"
	"net/http"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/handler/http/response"
)

// MaxBodySize caps the request body at limit bytes. Reads past the limit fail
// and surface as a decode error in the handler.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireJSON rejects requests with a body that is not application/json.
// Empty bodies pass so commands without a payload stay simple to call.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			response.BadRequest(w, "Content-Type must be application/json", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
