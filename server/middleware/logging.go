package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/localstt/logger"
)

// slowRequest marks requests worth flagging in the access log. Transcriptions
// routinely exceed it on a cold server.
const slowRequest = 5 * time.Second

// RequestLogger writes one access-log line per request with the status,
// duration and response size. Health probes are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			aw := newAccessWriter(w)
			next.ServeHTTP(aw, r)
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				logger.FieldStatus:   aw.status,
				logger.FieldDuration: duration.Milliseconds(),
				"bytes":              aw.bytes,
			}
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			if duration > slowRequest {
				fields["slow"] = true
			}
			logByStatus(log, fields, aw.status)
		})
	}
}

func isHealthEndpoint(path string) bool {
	return path == "/health"
}

// logByStatus logs request fields at a level derived from the status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
