// Package signals is a signal-style state holder patched with partial values,
// partial-updater functions or draft recipes.
//
// Example:
//
//	type User struct {
//	    ID   int    `json:"id"`
//	    Name Name   `json:"name"`
//	}
//
//	users := signals.New(User{ID: 1})
//	err := users.Patch(
//	    signals.Partial[User](signals.Fields{"name": Name{First: "Lucy"}}),
//	    signals.Mutate(func(d *User) *User {
//	        d.ID++
//	        return nil
//	    }),
//	)
//
// All updaters of one Patch call are folded into a single commit, so
// subscribers see one notification. Watch narrows notifications to a single
// field: untouched fields keep their references and are not re-notified.
package signals

import (
	"github.com/tailored-agentic-units/drafts/container"
	"github.com/tailored-agentic-units/drafts/draft"
)

// State holds one value of type S.
type State[S any] struct {
	c *container.Container[S]
}

// New creates a State over a fresh container.
func New[S any](initial S, opts ...container.Option) *State[S] {
	return &State[S]{c: container.New(initial, opts...)}
}

// Get returns the current value.
func (s *State[S]) Get() S {
	return s.c.State()
}

// Patch applies updaters in order as one commit. Each updater sees the
// result of the updaters before it. If any updater fails, nothing is
// committed and the error is returned.
func (s *State[S]) Patch(updaters ...Updater[S]) error {
	return s.c.Update(func(current S) (S, error) {
		return Fold(current, updaters...)
	})
}

// Subscribe calls fn with the new value after every commit.
func (s *State[S]) Subscribe(fn func(S)) (cancel func()) {
	return s.c.Subscribe(fn)
}

// Watch calls fn after commits that changed field. A field counts as changed
// when its value is no longer reference-identical (draft.Same) to the one
// before the commit.
func (s *State[S]) Watch(field string, fn func(S)) (cancel func(), err error) {
	return watch(s.c, field, fn)
}

// ReadOnly returns a view that can read and observe but not patch.
func (s *State[S]) ReadOnly() View[S] {
	return View[S]{c: s.c}
}

// Container exposes the underlying container for checkpointing and restore.
func (s *State[S]) Container() *container.Container[S] {
	return s.c
}

// View is the read-only side of a State.
type View[S any] struct {
	c *container.Container[S]
}

func (v View[S]) Get() S {
	return v.c.State()
}

func (v View[S]) Subscribe(fn func(S)) (cancel func()) {
	return v.c.Subscribe(fn)
}

func (v View[S]) Watch(field string, fn func(S)) (cancel func(), err error) {
	return watch(v.c, field, fn)
}

func watch[S any](c *container.Container[S], field string, fn func(S)) (func(), error) {
	get, err := fieldGetter[S](field)
	if err != nil {
		return nil, err
	}
	return c.SubscribeChange(func(prev, next S) {
		if !draft.Same(get(prev), get(next)) {
			fn(next)
		}
	}), nil
}
