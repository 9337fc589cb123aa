package api

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure. The server reports errors in several
// shapes (field maps, strings); the client normalizes all of them into
// one tagged error before they reach calling code.
type Kind int

const (
	// KindValidation covers 400 responses: malformed input, rejected
	// credentials, duplicate unique fields. Field-level messages are in
	// Fields when the server provided them.
	KindValidation Kind = iota
	// KindUnauthenticated covers 401 responses: missing, invalid or
	// expired token. Observing one tears down the client session.
	KindUnauthenticated
	// KindNotFound covers 404 responses.
	KindNotFound
	// KindServer covers 5xx responses that survived the retry budget.
	KindServer
	// KindTransient covers network failures that survived the retry
	// budget (no response at all).
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindTransient:
		return "transient"
	}
	return "unknown"
}

// Error is the normalized API failure: a kind, the server's message and
// optional field-level detail for form display.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 when no response was received
	Message string
	Fields  map[string]string // field → message, may be nil
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

// Retryable reports whether the failure was retried before surfacing;
// business errors (4xx) are never retried.
func (e *Error) Retryable() bool {
	return e.Kind == KindServer || e.Kind == KindTransient
}

// AsError extracts a normalized *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsUnauthenticated reports whether err is a 401-class failure.
func IsUnauthenticated(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindUnauthenticated
}
