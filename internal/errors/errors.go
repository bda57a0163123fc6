package errors

import (
	"errors"
	"net/http"
)

// ErrorWithStatusCode travels from storage and service layers up to handlers,
// which translate the status code into a redirect or a re-rendered form.
// Errors without a status code are treated as internal server errors.
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// ErrEmptyContent marks a write skipped because the content was empty after
// trimming. Handlers absorb it into a no-op redirect.
var ErrEmptyContent = errors.New("empty content")

func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func IsValidation(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}
