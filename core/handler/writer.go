package handler

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
	"strconv"
)

// responseWriter buffers the status and body of a response until the chain
// has finished, so outer middleware can still change them after calling Next.
// Flush commits the buffered response and switches to pass-through writes.
// Responses to HEAD requests never write a body, buffered or streamed.
type responseWriter struct {
	rw        http.ResponseWriter
	status    int
	body      bytes.Buffer
	head      bool
	committed bool
	hijacked  bool
	onHijack  func()
}

func newResponseWriter(w http.ResponseWriter, head bool, onHijack func()) *responseWriter {
	return &responseWriter{rw: w, head: head, onHijack: onHijack}
}

func (w *responseWriter) Header() http.Header {
	return w.rw.Header()
}

// WriteHeader records the status code. The last call before the response is
// committed wins.
func (w *responseWriter) WriteHeader(status int) {
	if w.committed || w.hijacked {
		return
	}
	w.status = status
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.hijacked {
		return 0, http.ErrHijacked
	}
	if w.committed {
		if w.head {
			return len(b), nil
		}
		return w.rw.Write(b)
	}
	return w.body.Write(b)
}

// Flush commits the buffered response and flushes the underlying writer.
func (w *responseWriter) Flush() {
	if w.hijacked {
		return
	}
	if !w.committed {
		w.commit(true)
	}
	if f, ok := w.rw.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack takes over the underlying connection. A successful hijack closes
// the owning context.
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.rw.(http.Hijacker)
	if !ok {
		return nil, nil, ErrHijackNotSupported
	}
	conn, brw, err := h.Hijack()
	if err != nil {
		return nil, nil, err
	}
	w.hijacked = true
	w.body.Reset()
	if w.onHijack != nil {
		w.onHijack()
	}
	return conn, brw, nil
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.rw
}

// Status returns the recorded status code, or 0 if none was set.
func (w *responseWriter) Status() int {
	return w.status
}

// Written reports whether the response has been committed or hijacked.
func (w *responseWriter) Written() bool {
	return w.committed || w.hijacked
}

// finish sends whatever is still buffered. For HEAD requests the body is
// dropped but its length is still announced.
func (w *responseWriter) finish() {
	if w.committed || w.hijacked {
		return
	}
	w.commit(false)
}

// commit writes the status, headers and buffered body. A streaming commit
// leaves Content-Length unset since more writes follow.
func (w *responseWriter) commit(streaming bool) {
	w.committed = true
	if w.status == 0 {
		w.status = http.StatusOK
	}

	allowed := bodyAllowedForStatus(w.status)
	if allowed && !streaming && w.body.Len() > 0 && w.rw.Header().Get("Content-Length") == "" && w.rw.Header().Get("Transfer-Encoding") == "" {
		w.rw.Header().Set("Content-Length", strconv.Itoa(w.body.Len()))
	}
	w.rw.WriteHeader(w.status)

	if allowed && !w.head && w.body.Len() > 0 {
		_, _ = w.rw.Write(w.body.Bytes())
	}
	w.body.Reset()
}

func bodyAllowedForStatus(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
