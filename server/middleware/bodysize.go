package middleware

import "net/http"

// BodySizeLimit caps the request body at maxBytes. Reads past the limit fail
// and the server closes the connection after the response. A non-positive
// limit disables the cap.
func BodySizeLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
