package ports

import "go.trai.ch/mk/internal/core/domain"

//go:generate mockgen -source=fs.go -destination=mocks/mock_fs.go -package=mocks

// FS exposes the filesystem facts staleness planning depends on, plus the
// stash protocol that makes failed recipes restorable. Existence and
// modification time are the sole staleness signals.
type FS interface {
	// Timestamp returns the modification time of path, or the undefined
	// timestamp if path does not exist.
	Timestamp(path string) domain.Timestamp

	// Exists reports whether path exists.
	Exists(path string) bool

	// Stash moves any existing file at path aside so a recipe can rewrite
	// it. The returned stash also handles the case where nothing existed:
	// restoring then removes whatever the failed recipe left behind.
	Stash(path string) (Stash, error)
}

// Stash is the displaced prior state of a target path.
type Stash interface {
	// Restore puts the prior state back, replacing any partial output the
	// failed recipe wrote. If no prior version existed the partial output
	// is removed instead.
	Restore() error

	// Discard drops the prior version and keeps the fresh output.
	Discard() error
}
