package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

var keyPrefix = []byte("snapshot/")

// PebbleStore keeps snapshots in a Pebble database under the "snapshot/"
// key prefix. Close must be called to release the database.
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore opens (or creates) a Pebble database at path.
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble store: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func snapshotKey(id string) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(id))
	key = append(key, keyPrefix...)
	return append(key, id...)
}

func (s *PebbleStore) Save(_ context.Context, snap Snapshot) error {
	if snap.ID == "" {
		return ErrEmptyID
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, snap.ID, err)
	}
	if err := s.db.Set(snapshotKey(snap.ID), data, pebble.Sync); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, snap.ID, err)
	}
	return nil
}

func (s *PebbleStore) Load(_ context.Context, id string) (Snapshot, error) {
	value, closer, err := s.db.Get(snapshotKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrLoadFailed, id, err)
	}
	defer closer.Close()

	var snap Snapshot
	if err := json.Unmarshal(value, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrLoadFailed, id, err)
	}
	return snap, nil
}

func (s *PebbleStore) Delete(_ context.Context, id string) error {
	if err := s.db.Delete(snapshotKey(id), pebble.Sync); err != nil {
		return fmt.Errorf("delete failed: %s: %w", id, err)
	}
	return nil
}

func (s *PebbleStore) List(_ context.Context) ([]string, error) {
	upper := append([]byte(nil), keyPrefix...)
	upper[len(upper)-1]++

	it := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: upper,
	})
	defer it.Close()

	var ids []string
	for valid := it.First(); valid; valid = it.Next() {
		ids = append(ids, string(it.Key()[len(keyPrefix):]))
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return ids, nil
}

// Close flushes and closes the database.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}
