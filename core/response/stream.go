package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrymomot/maw/core/handler"
)

// ErrStreamingUnsupported is returned when the writer cannot flush.
var ErrStreamingUnsupported = errors.New("response: streaming unsupported")

// Stream commits the headers and passes the writer to fn. Every Flush on the
// writer sends what was written so far to the client.
func Stream(fn func(w io.Writer, flush func()) error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			return ErrStreamingUnsupported
		}
		w.Header().Set("Cache-Control", "no-cache")
		flusher.Flush()

		if err := fn(w, flusher.Flush); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
}

// StreamJSON writes every item received from items as a line of
// newline-delimited JSON until the channel closes or the request ends.
func StreamJSON[T any](items <-chan T) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			return ErrStreamingUnsupported
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		flusher.Flush()

		enc := json.NewEncoder(w)
		for {
			select {
			case <-r.Context().Done():
				return nil
			case item, ok := <-items:
				if !ok {
					return nil
				}
				if err := enc.Encode(item); err != nil {
					return err
				}
				flusher.Flush()
			}
		}
	}
}
