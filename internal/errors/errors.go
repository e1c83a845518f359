// Package errors provides the structured error type shared between the
// pipeline and the HTTP boundary.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status alongside the wrapped error so the trigger
// boundary can map failures without inspecting message strings.
type Error struct {
	Status int
	Err    error // The error this wraps
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type transport struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(transport{
		Message: e.Err.Error(),
		Status:  e.Status,
	})
}

// E builds an *Error from its arguments: a string or error becomes the
// wrapped error, an int becomes the status. Defaults to a 500.
func E(args ...any) *Error {
	ret := &Error{
		Status: http.StatusInternalServerError,
		Err:    nil,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			ret.Err = errors.New(arg)
		case error:
			ret.Err = arg
		case int:
			ret.Status = arg
		}
	}

	return ret
}
