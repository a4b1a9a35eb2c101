package middleware

import "net/http"

// NewMaxBodySizeHandler returns a middleware that limits request bodies to
// limit bytes. A declared Content-Length over the limit is rejected with 413
// before the next handler runs. Otherwise the body is wrapped in
// http.MaxBytesReader, so a streaming body fails on read once it overflows.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
