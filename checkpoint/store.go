// Package checkpoint persists container snapshots so state can be restored
// after a restart. Snapshots are opaque encoded bytes plus provenance
// (container id, name, version, time); encoding is delegated to a Codec.
package checkpoint

import (
	"context"
	"time"
)

// Snapshot is one persisted container state. ID identifies the container;
// saving again under the same ID replaces the previous snapshot.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Version   int64     `json:"version"`
	Codec     string    `json:"codec"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// Store persists snapshots. Implementations must be safe for concurrent use.
type Store interface {
	// Save writes snap, replacing any snapshot with the same ID.
	Save(ctx context.Context, snap Snapshot) error
	// Load returns the snapshot for id or ErrNotFound.
	Load(ctx context.Context, id string) (Snapshot, error)
	// Delete removes the snapshot for id. Missing ids are ignored.
	Delete(ctx context.Context, id string) error
	// List returns the ids of all stored snapshots.
	List(ctx context.Context) ([]string, error)
}
