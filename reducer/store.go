package reducer

import (
	"github.com/tailored-agentic-units/drafts/container"
)

// Store holds state driven by a Reducer.
type Store[S any] struct {
	r *Reducer[S]
	c *container.Container[S]
}

// NewStore creates a store starting at the reducer's initial state.
func NewStore[S any](r *Reducer[S], opts ...container.Option) *Store[S] {
	return &Store[S]{
		r: r,
		c: container.New(r.Initial(), opts...),
	}
}

// Dispatch reduces a into the current state. Actions the reducer does not
// handle, and reductions that change nothing, commit nothing.
func (s *Store[S]) Dispatch(a Action) error {
	return s.c.Update(func(current S) (S, error) {
		return s.r.Reduce(current, a)
	})
}

// Handles reports whether the store's reducer handles typ.
func (s *Store[S]) Handles(typ string) bool {
	return s.r.Handles(typ)
}

// State returns the current state.
func (s *Store[S]) State() S {
	return s.c.State()
}

// Subscribe calls fn after every committed dispatch.
func (s *Store[S]) Subscribe(fn func(S)) (cancel func()) {
	return s.c.Subscribe(fn)
}

// Container exposes the underlying container for checkpointing and restore.
func (s *Store[S]) Container() *container.Container[S] {
	return s.c
}
