// Package apperr defines the error taxonomy shared by every domain service.
// Services wrap these sentinels with fmt.Errorf("...: %w", ...) and handlers
// translate them to HTTP statuses in one place, so no call site invents its
// own classification.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrForbidden marks a role mismatch. Surfaced to the caller, never retried.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput marks malformed input such as an empty name or a
	// negative age. Surfaced, never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an unknown record id. An unknown phone number on a
	// family query is NOT this error; it yields an empty view.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a per-patient update lock already held. The caller
	// may retry with backoff.
	ErrConflict = errors.New("conflict")

	// ErrStoreFault marks an unavailable or timed-out record store.
	ErrStoreFault = errors.New("store fault")

	// ErrInconsistent marks a failure after a history entry was appended but
	// before the live record was updated, on a store that cannot roll the
	// append back. Retrying would risk a duplicate history entry, so this is
	// terminal and must be reported.
	ErrInconsistent = errors.New("inconsistent state")
)

// Forbidden returns an ErrForbidden with a formatted detail message.
func Forbidden(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrForbidden)...)
}

// InvalidInput returns an ErrInvalidInput with a formatted detail message.
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// NotFound returns an ErrNotFound with a formatted detail message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// StoreFault wraps a store error, preserving the underlying cause in the
// message while classifying it for the taxonomy.
func StoreFault(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStoreFault)
}

// HTTPStatus maps a classified error to its response status. Unclassified
// errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrStoreFault):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ToHTTP converts a service error into an echo.HTTPError carrying the
// mapped status and the error message as detail.
func ToHTTP(err error) *echo.HTTPError {
	return echo.NewHTTPError(HTTPStatus(err), err.Error())
}
