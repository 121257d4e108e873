package binder

import "errors"

var (
	// ErrUnsupportedMediaType is returned when the Content-Type does not match the binder.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrMissingContentType is returned when a body binder gets no Content-Type header.
	ErrMissingContentType = errors.New("missing content type")

	// ErrUnsupportedTarget is returned when the destination value cannot be bound to.
	ErrUnsupportedTarget = errors.New("unsupported binding target")

	ErrFailedToParseJSON  = errors.New("failed to parse JSON request body")
	ErrFailedToParseXML   = errors.New("failed to parse XML request body")
	ErrFailedToParseForm  = errors.New("failed to parse form data")
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")
	ErrFailedToParsePath  = errors.New("failed to parse path parameters")
)
