package httpserver

import (
	"net/http"
	"time"

	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/google/uuid"
)

type (
	statusRecorder struct {
		http.ResponseWriter
		status int
	}
)

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// LogRequests logs one line per request and gives every request a
// logger tagged with its request id. PII values in the query string
// are masked before logging.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		log := logutil.GetOrDefault(r.Context()).With().Str("request_id", reqID).Logger()
		w.Header().Set("X-Request-Id", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logutil.WithLogger(r.Context(), log)))
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", logutil.FilterDatum(logutil.PIIFields, logutil.Redaction, r.URL.RawQuery, "&")).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("Request served")
	})
}
