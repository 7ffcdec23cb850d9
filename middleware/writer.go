package middleware

import "net/http"

// responseWriter wraps http.ResponseWriter and runs a hook immediately before
// the first WriteHeader. The session middleware uses the hook to emit cookies
// derived from the handle's final state, so a rotation performed inside the
// handler is reflected in the Set-Cookie headers even though the handle was
// resolved before the handler ran.
type responseWriter struct {
	http.ResponseWriter
	status      int
	written     bool
	beforeWrite func()
}

func newResponseWriter(w http.ResponseWriter, beforeWrite func()) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		beforeWrite:    beforeWrite,
	}
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.written {
		w.written = true
		w.status = status
		if w.beforeWrite != nil {
			w.beforeWrite()
		}
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// finalize runs the hook for handlers that return without writing anything,
// so the implicit 200 still carries the cookies.
func (w *responseWriter) finalize() {
	if !w.written {
		w.written = true
		w.status = http.StatusOK
		if w.beforeWrite != nil {
			w.beforeWrite()
		}
	}
}

// Flush implements http.Flusher when the underlying writer supports it.
// Flushing commits the response on the wire, so the header (and with it the
// hook's cookies) must go out first.
func (w *responseWriter) Flush() {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
