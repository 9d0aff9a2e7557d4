package modelcache

import (
	"context"
	"os"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 100 * time.Millisecond

// Lock takes the cross-process download lock for this repository. The
// returned func releases it.
func (c *Cache) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return func() {}, &CacheError{Op: OpLock, Path: c.root, Err: err}
	}
	path := c.ModelDir() + ".lock"
	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return func() {}, &CacheError{Op: OpLock, Path: path, Err: err}
	}
	if !ok {
		return func() {}, &CacheError{Op: OpLock, Path: path, Err: context.Canceled}
	}
	return func() { _ = fl.Unlock() }, nil
}
