package checkpoint

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

var stores = xsync.NewMapOf[string, Store]()

// Register makes a custom Store selectable by name from Config.Store.
// The built-in names ("none", "memory", "file", "pebble") cannot be shadowed.
func Register(name string, store Store) error {
	switch name {
	case "", "none", "memory", "file", "pebble":
		return fmt.Errorf("reserved checkpoint store name: %q", name)
	}
	stores.Store(name, store)
	return nil
}

// Get returns a Store added with Register.
func Get(name string) (Store, error) {
	store, ok := stores.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, name)
	}
	return store, nil
}
