package httperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors for the failure classes the API reports. Services return
// errors built with the constructors below; handlers map them to a status
// and body with Respond.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error carries a failure class and a client-facing message.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newError(ErrValidation, format, args...)
}

func Auth(format string, args ...interface{}) *Error {
	return newError(ErrAuth, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newError(ErrForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(ErrNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(ErrConflict, format, args...)
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the client-facing message for err. Unclassified errors
// get a generic message so store internals never reach the client.
func Message(err error) string {
	if Status(err) == fiber.StatusInternalServerError {
		return "Server error"
	}
	return err.Error()
}

// Respond writes the JSON error body for err.
func Respond(c *fiber.Ctx, err error) error {
	return c.Status(Status(err)).JSON(fiber.Map{"success": false, "message": Message(err)})
}
