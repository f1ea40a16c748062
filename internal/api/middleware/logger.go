package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/logging"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/metrics"
)

// Logger puts base into the request context and writes one access log line
// per request. Mount it before RequestID; the id is read back from the
// response header.
func Logger(base *zerolog.Logger, rec *metrics.Recorder) func(http.Handler) http.Handler {
	if base == nil {
		base = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), base)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			rec.HTTPRequest(r.Method, strconv.Itoa(status))

			base.Info().
				Str("request_id", ww.Header().Get(RequestIDHeader)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Msg("request")
		})
	}
}
