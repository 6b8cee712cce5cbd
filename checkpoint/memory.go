package checkpoint

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

type memoryStore struct {
	snapshots map[string]Snapshot
	mu        sync.RWMutex
}

// NewMemoryStore keeps snapshots in process memory. Contents are lost on
// exit; useful for tests and for undo-style restores within one run.
func NewMemoryStore() Store {
	return &memoryStore{
		snapshots: make(map[string]Snapshot),
	}
}

func (m *memoryStore) Save(_ context.Context, snap Snapshot) error {
	if snap.ID == "" {
		return ErrEmptyID
	}

	snap.Data = slices.Clone(snap.Data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.ID] = snap
	return nil
}

func (m *memoryStore) Load(_ context.Context, id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	snap.Data = slices.Clone(snap.Data)
	return snap, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}

func (m *memoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.snapshots))
	for id := range m.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
