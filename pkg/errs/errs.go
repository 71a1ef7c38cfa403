package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with an HTTP status code attached.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two *Error values by code and message so that
// sentinel values below can be wrapped with extra context.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of the sentinel carrying err as its cause.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// Checkout error taxonomy. Validation and NotFound surface to the caller
// before anything is published; Publish surfaces to the caller with the
// basket untouched; Deletion is logged only and never fails a checkout.
var (
	ErrValidation = New(http.StatusBadRequest, "Validation error", nil)
	ErrNotFound   = New(http.StatusNotFound, "Not found", nil)
	ErrPublish    = New(http.StatusBadGateway, "Event publish rejected", nil)
	ErrDeletion   = New(http.StatusInternalServerError, "Basket deletion failed", nil)
)

// Consumer error taxonomy. Neither surfaces to a caller: malformed payloads
// go straight to the dead-letter queue, transient store errors ride the
// queue's visibility timeout until the retry bound is hit.
var (
	ErrMalformedPayload = New(http.StatusUnprocessableEntity, "Malformed message payload", nil)
	ErrTransientStore   = New(http.StatusServiceUnavailable, "Store temporarily unavailable", nil)
)

var ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)

// ErrorMiddleware maps errors attached to the gin context onto JSON responses.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if !errors.As(err, &appErr) {
				appErr = Wrap(ErrInternalServer, err)
			}

			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}
