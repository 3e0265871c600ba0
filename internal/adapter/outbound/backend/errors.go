package backend

import (
	"errors"
	"fmt"
)

// fallbackMessage is used when a failed envelope carries no message.
const fallbackMessage = "request_failed"

// ErrUnauthorized is returned when the backend answered HTTP 401. By the time
// the caller sees it the session has already been cleared.
var ErrUnauthorized = errors.New("unauthorized")

// RequestFailedError is returned when the backend reported an application
// failure (non-zero envelope code) or sent a body that is not an envelope.
type RequestFailedError struct {
	// Code is the envelope code, 0 when the body could not be parsed.
	Code int
	// Message is the backend message, or "request_failed".
	Message string
	// Status is the HTTP status of the response.
	Status int
}

func (e *RequestFailedError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	return e.Message
}

// TransportError is returned when no response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is (or wraps) ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRequestFailed reports whether err is (or wraps) a RequestFailedError.
func IsRequestFailed(err error) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Message returns the operator-facing text for err.
func Message(err error) string {
	var rf *RequestFailedError
	switch {
	case err == nil:
		return ""
	case IsUnauthorized(err):
		return "Your session has expired. Please log in again."
	case errors.As(err, &rf):
		return rf.Message
	case IsTransport(err):
		return "The backend could not be reached."
	default:
		return err.Error()
	}
}
