package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// Error kinds. Domain errors wrap exactly one of these so handlers can map
// them to a status code with errors.Is.
var (
	ErrValidation      = stderrors.New("validation failed")
	ErrNotFound        = stderrors.New("not found")
	ErrConflict        = stderrors.New("conflict")
	ErrUnauthenticated = stderrors.New("unauthenticated")
	ErrForbidden       = stderrors.New("forbidden")
	ErrConnection      = stderrors.New("store unavailable")
	ErrTooLarge        = stderrors.New("payload too large")
)

// ErrInvalidCredentials is returned for every failed login, whatever the cause.
var ErrInvalidCredentials error = &kindError{kind: ErrUnauthenticated, msg: "Invalid credentials"}

// kindError keeps a client-safe message alongside its kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Validation returns an ErrValidation with a client-facing message.
func Validation(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns an ErrNotFound with a client-facing message.
func NotFoundf(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflictf returns an ErrConflict with a client-facing message.
func Conflictf(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// TooLargef returns an ErrTooLarge with a client-facing message.
func TooLargef(format string, args ...any) error {
	return &kindError{kind: ErrTooLarge, msg: fmt.Sprintf(format, args...)}
}

// Connection wraps a store failure. The cause is kept for logging only.
func Connection(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrConnection, cause)
}

// IsConnection reports whether err is a store failure.
func IsConnection(err error) bool {
	return stderrors.Is(err, ErrConnection)
}

// Respond writes the JSON error response matching err's kind.
// Store failures and unknown errors never leak their cause to the client.
func Respond(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, ErrValidation):
		BadRequest(c, err.Error())
	case stderrors.Is(err, ErrNotFound):
		NotFound(c, err.Error())
	case stderrors.Is(err, ErrConflict):
		Conflict(c, err.Error())
	case stderrors.Is(err, ErrTooLarge):
		PayloadTooLarge(c, err.Error())
	case stderrors.Is(err, ErrInvalidCredentials):
		InvalidCredentials(c)
	case stderrors.Is(err, ErrUnauthenticated):
		Unauthorized(c, err.Error())
	case stderrors.Is(err, ErrForbidden):
		Forbidden(c, err.Error())
	case stderrors.Is(err, ErrConnection):
		StoreUnavailable(c)
	default:
		InternalError(c, "")
	}
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return stderrors.Is(err, ErrConflict)
}

// IsClientError reports whether err maps to a 4xx response.
func IsClientError(err error) bool {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrUnauthenticated, ErrForbidden, ErrTooLarge} {
		if stderrors.Is(err, kind) {
			return true
		}
	}
	return false
}
