package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/logger"
)

// Recovery converts a panic in a downstream handler into a 500 response
// carrying an INTERNAL_ERROR body. The stack is logged.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("Panic recovered", map[string]interface{}{
					logger.FieldError:     fmt.Sprintf("%v", rec),
					logger.FieldRequestID: r.Header.Get(HeaderRequestID),
					"stack":               string(debug.Stack()),
					"method":              r.Method,
					"path":                r.URL.Path,
				})
				status, body := errors.ResponseFor(fmt.Errorf("panic: %v", rec))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
