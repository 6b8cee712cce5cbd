package reducer

import (
	"errors"
	"fmt"
	"sync"
)

// Target receives dispatched actions. *Store satisfies it for any state
// type.
type Target interface {
	Dispatch(Action) error
}

type entry struct {
	name   string
	target Target
}

// Dispatcher fans actions out to a set of named stores.
type Dispatcher struct {
	entries []entry
	mu      sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds target under name. Names must be unique and non-empty.
func (d *Dispatcher) Register(name string, target Target) error {
	if name == "" {
		return ErrEmptyName
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		if e.name == name {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
		}
	}

	d.entries = append(d.entries, entry{name: name, target: target})
	return nil
}

// Unregister removes the target registered under name.
func (d *Dispatcher) Unregister(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, e := range d.entries {
		if e.name == name {
			d.entries = append(d.entries[:i:i], d.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Names lists registered targets in registration order.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.name
	}
	return names
}

// Dispatch delivers a to every target in registration order. A failing
// target does not stop delivery to the rest; all errors are joined.
func (d *Dispatcher) Dispatch(a Action) error {
	d.mu.RLock()
	entries := make([]entry, len(d.entries))
	copy(entries, d.entries)
	d.mu.RUnlock()

	var errs []error
	for _, e := range entries {
		if err := e.target.Dispatch(a); err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", e.name, err))
		}
	}
	return errors.Join(errs...)
}
