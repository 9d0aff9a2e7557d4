package hub

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies registry failures.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindIntegrity    Kind = "integrity"
)

// Error is returned by every Client call that fails.
type Error struct {
	Kind   Kind
	Status int // HTTP status when the server answered
	File   string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("hub %s: %s", e.Kind, e.File)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (http %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrIntegrity is wrapped by KindIntegrity errors.
var ErrIntegrity = errors.New("checksum mismatch")

func isKind(err error, k Kind) bool {
	var he *Error
	return errors.As(err, &he) && he.Kind == k
}

func IsNetwork(err error) bool      { return isKind(err, KindNetwork) }
func IsNotFound(err error) bool     { return isKind(err, KindNotFound) }
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }
func IsIntegrity(err error) bool    { return isKind(err, KindIntegrity) }

func statusError(file string, code int, body string) error {
	e := &Error{Status: code, File: file}
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		e.Kind = KindUnauthorized
	case code == http.StatusNotFound:
		e.Kind = KindNotFound
	default:
		e.Kind = KindNetwork
	}
	if body != "" {
		e.Err = errors.New(body)
	}
	return e
}
