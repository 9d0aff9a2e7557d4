package aiconfig

import (
	"errors"
	"fmt"
)

// Op identifies which configuration operation failed.
type Op string

const (
	OpParse Op = "parse"
	OpWrite Op = "write"
)

// ConfigError wraps read/parse and write failures of the config file.
type ConfigError struct {
	Op   Op
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	switch e.Op {
	case OpParse:
		return fmt.Sprintf("config parse failure (%s): %v", e.Path, e.Err)
	case OpWrite:
		return fmt.Sprintf("config write failure (%s): %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("config %s (%s): %v", e.Op, e.Path, e.Err)
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsParseFailure reports whether err is a malformed/unreadable config file.
func IsParseFailure(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce) && ce.Op == OpParse
}

// IsWriteFailure reports whether err is a failed config write.
func IsWriteFailure(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce) && ce.Op == OpWrite
}

// ErrEmptyToken is returned by SetToken for an empty token.
var ErrEmptyToken = errors.New("token is empty")
