package planka

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client failures into a closed set of categories.
// Callers switch on the kind instead of inspecting status codes.
type ErrorKind string

const (
	// KindConfiguration indicates a missing or malformed client setting.
	// Raised before any network call is attempted.
	KindConfiguration ErrorKind = "configuration"

	// KindAuthentication indicates rejected credentials, either on the
	// token endpoint or after the single 401 retry was exhausted.
	KindAuthentication ErrorKind = "authentication"

	// KindPermission indicates a 403 from the kanban server.
	KindPermission ErrorKind = "permission"

	// KindNotFound indicates a 404 from the kanban server.
	KindNotFound ErrorKind = "not_found"

	// KindValidation indicates a 422 from the kanban server, or a local
	// payload validation failure raised before any network call.
	KindValidation ErrorKind = "validation"

	// KindNetwork indicates a transport-level failure (connection
	// refused, DNS failure, timeout). The server was never reached or
	// never answered.
	KindNetwork ErrorKind = "network"

	// KindAPI indicates any other non-2xx response.
	KindAPI ErrorKind = "api"
)

// Error is the typed error returned by every client and aggregation
// operation. Operations either return a valid value or an *Error; they
// never return nil-for-both.
type Error struct {
	// Kind is the failure category.
	Kind ErrorKind

	// Status is the HTTP status code, if the server answered.
	Status int

	// Message is a human-readable description.
	Message string

	// Details carries the best-effort parsed error body. A parse
	// failure on the error body leaves Details nil rather than masking
	// the original failure.
	Details any

	// Op is the "METHOD path" context of the failing request, when one
	// was made.
	Op string

	// Timeout marks network errors caused by the per-request deadline,
	// so callers can tell a timeout apart from other transport failures.
	Timeout bool

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Op != "" && e.Status != 0:
		return fmt.Sprintf("planka: %s: %s %d: %s", e.Op, e.Kind, e.Status, msg)
	case e.Op != "":
		return fmt.Sprintf("planka: %s: %s: %s", e.Op, e.Kind, msg)
	default:
		return fmt.Sprintf("planka: %s: %s", e.Kind, msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err if it is (or wraps) a *Error, and an
// empty kind otherwise.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsTimeout reports whether err is a network error caused by the
// per-request deadline.
func IsTimeout(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindNetwork && pe.Timeout
}

// configError builds a Configuration error for a bad or missing setting.
func configError(format string, args ...any) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: fmt.Sprintf(format, args...),
	}
}

// httpError maps a non-2xx response onto the error taxonomy. body is
// the best-effort parsed response body and may be nil.
func httpError(op string, status int, message string, body any) *Error {
	kind := KindAPI
	switch status {
	case 401:
		kind = KindAuthentication
	case 403:
		kind = KindPermission
	case 404:
		kind = KindNotFound
	case 422:
		kind = KindValidation
	}
	return &Error{
		Kind:    kind,
		Status:  status,
		Message: message,
		Details: body,
		Op:      op,
	}
}

// netError wraps a transport-level failure, flagging deadline overruns
// as timeouts.
func netError(op string, err error, timeout bool) *Error {
	msg := "request failed"
	if timeout {
		msg = "request timed out"
	}
	return &Error{
		Kind:    KindNetwork,
		Message: msg,
		Op:      op,
		Timeout: timeout,
		Err:     err,
	}
}
