package modelcache

import (
	"errors"
	"fmt"
)

// Op identifies a failed cache operation.
type Op string

const (
	OpDelete Op = "delete"
	OpLock   Op = "lock"
)

// CacheError reports a cache mutation that did not complete.
type CacheError struct {
	Op   Op
	Path string
	Err  error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s failure (%s): %v", e.Op, e.Path, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// IsDeleteFailure reports whether err is a partial or failed cache deletion.
func IsDeleteFailure(err error) bool {
	var ce *CacheError
	return errors.As(err, &ce) && ce.Op == OpDelete
}
