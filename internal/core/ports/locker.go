package ports

//go:generate mockgen -source=locker.go -destination=mocks/mock_locker.go -package=mocks

// Locker serializes build runs against a workspace directory so two
// concurrent invocations cannot interleave recipe executions.
type Locker interface {
	// TryLock acquires the workspace lock for dir without blocking. It
	// returns an error wrapping ErrWorkspaceLocked when another process
	// holds the lock. The release function must be called exactly once.
	TryLock(dir string) (release func() error, err error)
}
