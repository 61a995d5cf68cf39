package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mk/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the filesystem adapter Graft node.
	NodeID graft.ID = "adapter.fs"
	// LockerNodeID is the unique identifier for the workspace locker Graft node.
	LockerNodeID graft.ID = "adapter.locker"
)

func init() {
	graft.Register(graft.Node[ports.FS]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FS, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.Locker]{
		ID:        LockerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Locker, error) {
			return NewLocker(), nil
		},
	})
}
