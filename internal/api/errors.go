package api

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when an authenticated call is attempted
// without a signed-in session. No request leaves the client in that case.
var ErrAuthRequired = errors.New("not signed in")

// RequestError is a non-2xx response from the API. Message carries the
// server-supplied error text when the body had one, or a generic
// status-code fallback otherwise.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// fallbackMessage is used when an error body lacks an error field.
func fallbackMessage(status int) string {
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// IsRequestError reports whether err (or any error in its chain) is a
// RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
