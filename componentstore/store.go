// Package componentstore is a component-style store whose updaters and
// SetStateFunc receive a draft they may mutate in place.
//
// Example:
//
//	type Shows struct{ Titles []string }
//
//	cs := componentstore.New(Shows{})
//	addShow := componentstore.UpdaterOf(cs, func(d *Shows, title string) *Shows {
//	    d.Titles = append(d.Titles, title)
//	    return nil
//	})
//	err := addShow("The Queen's Gambit")
package componentstore

import (
	"context"

	"github.com/tailored-agentic-units/drafts/container"
	"github.com/tailored-agentic-units/drafts/draft"
)

// Store holds the state of one component.
type Store[S any] struct {
	c *container.Container[S]
}

// New creates a store holding initial.
func New[S any](initial S, opts ...container.Option) *Store[S] {
	return &Store[S]{c: container.New(initial, opts...)}
}

// State returns the current state.
func (s *Store[S]) State() S {
	return s.c.State()
}

// Subscribe calls fn after every state change.
func (s *Store[S]) Subscribe(fn func(S)) (cancel func()) {
	return s.c.Subscribe(fn)
}

// Container exposes the underlying container for checkpointing and restore.
func (s *Store[S]) Container() *container.Container[S] {
	return s.c
}

// Updater returns a callable that applies fn to a draft of the current
// state each time it is invoked.
func (s *Store[S]) Updater(fn func(d *S) *S) func() error {
	return func() error {
		return s.SetStateFunc(fn)
	}
}

// UpdaterOf is Updater for callables that take an argument.
func UpdaterOf[S, A any](s *Store[S], fn func(d *S, arg A) *S) func(A) error {
	reduce := draft.Reducer(fn)
	return func(arg A) error {
		return s.c.Update(func(current S) (S, error) {
			return reduce(current, arg)
		})
	}
}

// SetState replaces the state with v. No draft is involved.
func (s *Store[S]) SetState(v S) {
	s.c.Set(v)
}

// SetStateFunc runs fn against a draft of the current state and commits the
// result. ErrConflictingUpdate and any other failure leave the state as is.
func (s *Store[S]) SetStateFunc(fn func(d *S) *S) error {
	return s.c.Update(func(current S) (S, error) {
		return draft.Produce(current, fn)
	})
}

// Connect feeds every value received on values into update until the channel
// is closed or ctx is done. The first update error stops the loop and is
// returned.
func Connect[A any](ctx context.Context, update func(A) error, values <-chan A) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-values:
			if !ok {
				return nil
			}
			if err := update(v); err != nil {
				return err
			}
		}
	}
}

// Select projects the current state through fn.
func Select[S, R any](s *Store[S], fn func(S) R) R {
	return fn(s.c.State())
}
