package httpclient

import "time"

// Request is one outbound call relative to the client's BaseURL.
type Request struct {
	Method string
	// Path is joined to BaseURL, or used as-is when BaseURL is empty.
	Path string
	// Headers override the client defaults key by key.
	Headers map[string]string
	Query   map[string]string
	// Body is a *MultipartBody, io.Reader, []byte or string. Any other value
	// is sent as JSON.
	Body any
	// Timeout narrows the client timeout for this call; it never widens it.
	Timeout time.Duration
}

// Response holds a fully read response body.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
