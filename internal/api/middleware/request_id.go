package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags the request context and response with a request id, taken
// from the incoming header when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}
