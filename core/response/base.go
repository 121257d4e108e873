package response

import (
	"net/http"

	"github.com/dmitrymomot/maw/core/handler"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// setContentType sets the Content-Type header unless an earlier handler did.
func setContentType(w http.ResponseWriter, contentType string) {
	if contentType != "" && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentType)
	}
}

// String writes content as text/plain.
func String(content string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		setContentType(w, contentTypeText)
		if content == "" {
			return nil
		}
		_, err := w.Write([]byte(content))
		return err
	}
}

// HTML writes content as text/html.
func HTML(content string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		setContentType(w, contentTypeHTML)
		if content == "" {
			return nil
		}
		_, err := w.Write([]byte(content))
		return err
	}
}

// Bytes writes content with the given content type, or
// application/octet-stream when it is empty.
func Bytes(content []byte, contentType string) handler.Response {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		setContentType(w, contentType)
		if len(content) == 0 {
			return nil
		}
		_, err := w.Write(content)
		return err
	}
}

// Status sets the response status without writing a body.
func Status(status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(status)
		return nil
	}
}

// SendStatus sets the status and writes its canonical text as the body.
func SendStatus(status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(status)
		text := http.StatusText(status)
		if text == "" {
			return nil
		}
		setContentType(w, contentTypeText)
		_, err := w.Write([]byte(text))
		return err
	}
}

// NoContent responds with 204 No Content.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// WithStatus runs resp after setting status.
func WithStatus(resp handler.Response, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(status)
		if resp == nil {
			return nil
		}
		return resp(w, r)
	}
}

// WithHeader runs resp after setting a response header.
func WithHeader(resp handler.Response, key, value string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set(key, value)
		if resp == nil {
			return nil
		}
		return resp(w, r)
	}
}
