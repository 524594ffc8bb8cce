package bitcoinfees

import (
	"errors"
	"fmt"
)

// ErrorKind separates failures of the HTTP round trip from failures to
// decode the response body.
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindDeserialization
)

func (kind ErrorKind) String() string {
	switch kind {
	case KindTransport:
		return "transport"
	case KindDeserialization:
		return "deserialization"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation.
type Error struct {
	Kind     ErrorKind
	Endpoint string
	// StatusCode is set when the server answered with a non-2xx status.
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	message := fmt.Sprintf("bitcoinfees %s: %s error", e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		message = fmt.Sprintf("%s: status %d", message, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", message, e.Cause)
	}
	return message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsTransportError reports whether err came from the HTTP round trip,
// including non-2xx responses.
func IsTransportError(err error) bool {
	var clientError *Error
	return errors.As(err, &clientError) && clientError.Kind == KindTransport
}

// IsDeserializationError reports whether err came from decoding the body.
func IsDeserializationError(err error) bool {
	var clientError *Error
	return errors.As(err, &clientError) && clientError.Kind == KindDeserialization
}
