// Package fs implements the filesystem adapter: modification-time stat,
// the stash protocol that guards targets against partial recipe output,
// and the flock-based workspace lock.
package fs

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/core/domain"
	"go.trai.ch/mk/internal/core/ports"
)

// OSFS implements ports.FS against the real filesystem.
type OSFS struct{}

// New creates a new OSFS.
func New() *OSFS {
	return &OSFS{}
}

// Timestamp returns the modification time of path, or the undefined timestamp
// when path does not exist. Other stat failures also map to undefined: a
// target we cannot observe must be treated as stale, never as up to date.
func (f *OSFS) Timestamp(path string) domain.Timestamp {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UndefinedTimestamp()
	}
	return domain.TimestampAt(info.ModTime())
}

// Exists reports whether path exists.
func (f *OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stash moves any existing file at path aside under a unique name in the
// same directory, so the rename never crosses a filesystem boundary. When
// nothing exists at path the returned stash remembers that, and restoring
// removes whatever a failed recipe left behind.
func (f *OSFS) Stash(path string) (ports.Stash, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &stash{target: path}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to stat target"), "path", path)
	}

	backup := filepath.Join(filepath.Dir(path), filepath.Base(path)+".stash-"+uuid.NewString())
	if err := os.Rename(path, backup); err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(err, "failed to stash target"), "path", path), "backup", backup)
	}
	return &stash{target: path, backup: backup, existed: true}, nil
}

// stash is the displaced prior state of one target path. Exactly one of
// Restore or Discard must be called.
type stash struct {
	target  string
	backup  string
	existed bool
}

// Restore puts the prior version back over whatever the failed recipe wrote.
// When no prior version existed the partial output is removed instead, so a
// failed first build leaves nothing behind.
func (s *stash) Restore() error {
	if !s.existed {
		if err := os.Remove(s.target); err != nil && !os.IsNotExist(err) {
			return zerr.With(zerr.Wrap(err, "failed to remove partial output"), "path", s.target)
		}
		return nil
	}
	if err := os.Rename(s.backup, s.target); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to restore target"), "path", s.target), "backup", s.backup)
	}
	return nil
}

// Discard drops the prior version and keeps the fresh output.
func (s *stash) Discard() error {
	if !s.existed {
		return nil
	}
	if err := os.Remove(s.backup); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to discard stash"), "backup", s.backup)
	}
	return nil
}
