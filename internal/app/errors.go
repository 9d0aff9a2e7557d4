package app

import (
	"errors"
	"net/http"
)

// Error carries an HTTP status for the API layer.
type Error struct {
	Code int
	Msg  string
}

func (e *Error) Error() string   { return e.Msg }
func (e *Error) StatusCode() int { return e.Code }

var (
	// ErrBusy is returned while an initialization is in flight.
	ErrBusy = &Error{Code: http.StatusConflict, Msg: "model initialization in progress"}
	// ErrInvalidToken rejects tokens that do not look like registry tokens.
	ErrInvalidToken = &Error{Code: http.StatusBadRequest, Msg: "invalid token format: expected hf_ prefix"}
	// ErrInvalidUserID rejects a malformed author id.
	ErrInvalidUserID = &Error{Code: http.StatusBadRequest, Msg: "invalid user_id"}
)

// IsBusy reports whether err is ErrBusy.
func IsBusy(err error) bool { return errors.Is(err, ErrBusy) }
