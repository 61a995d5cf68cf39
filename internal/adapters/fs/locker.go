package fs

import (
	"path/filepath"

	"github.com/gofrs/flock"
	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/core/domain"
)

// lockFilename sits beside the rule file so concurrent invocations against
// the same workspace contend on the same lock.
const lockFilename = ".mk.lock"

// FlockLocker implements ports.Locker using an advisory file lock.
type FlockLocker struct{}

// NewLocker creates a new FlockLocker.
func NewLocker() *FlockLocker {
	return &FlockLocker{}
}

// TryLock acquires the workspace lock for dir without blocking. The lock file
// itself is left in place after release; only the flock is dropped.
func (l *FlockLocker) TryLock(dir string) (func() error, error) {
	fl := flock.New(filepath.Join(dir, lockFilename))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to acquire workspace lock"), "dir", dir)
	}
	if !locked {
		return nil, zerr.With(domain.ErrWorkspaceLocked, "dir", dir)
	}
	return fl.Unlock, nil
}
