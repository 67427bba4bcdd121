package middleware

import "net/http"

// accessWriter records what a handler sent so the access log can report it.
type accessWriter struct {
	http.ResponseWriter
	status  int
	bytes   int64
	written bool
}

func newAccessWriter(w http.ResponseWriter) *accessWriter {
	return &accessWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader keeps the first status; later calls are passed through so the
// underlying writer can complain about them.
func (aw *accessWriter) WriteHeader(code int) {
	if !aw.written {
		aw.status = code
		aw.written = true
	}
	aw.ResponseWriter.WriteHeader(code)
}

func (aw *accessWriter) Write(b []byte) (int, error) {
	aw.written = true
	n, err := aw.ResponseWriter.Write(b)
	aw.bytes += int64(n)
	return n, err
}

func (aw *accessWriter) Flush() {
	if f, ok := aw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the original writer to http.ResponseController.
func (aw *accessWriter) Unwrap() http.ResponseWriter {
	return aw.ResponseWriter
}
