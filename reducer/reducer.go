// Package reducer binds draft recipes to typed events and composes them into
// whole-state reducers and action stores.
//
// Bindings take an explicit list of event creators plus one reducer, so one
// reducer can serve several event types:
//
//	clear := reducer.Define[reducer.Empty]("clear")
//	reset := reducer.Define[reducer.Empty]("reset")
//
//	todos := reducer.Create(Todos{},
//	    reducer.On([]reducer.Creator[reducer.Empty]{clear, reset},
//	        func(d *Todos, _ reducer.Event[reducer.Empty]) *Todos {
//	            d.Items = []string{}
//	            return nil
//	        }),
//	)
//	next, err := todos.Reduce(state, clear.Event())
package reducer

import (
	"slices"

	"github.com/tailored-agentic-units/drafts/draft"
)

// Binding ties a reducer to the event types it handles.
type Binding[S any] struct {
	Types  []string
	Reduce func(S, Action) (S, error)
}

// On binds a draft reducer to every type in creators. The reducer runs
// through draft.Produce, so it may mutate the draft and return nil, return
// the draft unchanged to signal "no change", or return a replacement.
func On[S, P any](creators []Creator[P], fn func(d *S, e Event[P]) *S) Binding[S] {
	reduce := draft.Reducer(fn)
	return Binding[S]{
		Types: typesOf(creators),
		Reduce: func(s S, a Action) (S, error) {
			e, err := eventOf[P](a)
			if err != nil {
				return s, err
			}
			return reduce(s, e)
		},
	}
}

// OnPlain binds a reducer that builds the next state itself.
func OnPlain[S, P any](creators []Creator[P], fn func(s S, e Event[P]) S) Binding[S] {
	return Binding[S]{
		Types: typesOf(creators),
		Reduce: func(s S, a Action) (S, error) {
			e, err := eventOf[P](a)
			if err != nil {
				return s, err
			}
			return fn(s, e), nil
		},
	}
}

func typesOf[P any](creators []Creator[P]) []string {
	types := make([]string, 0, len(creators))
	for _, c := range creators {
		if !slices.Contains(types, c.Type()) {
			types = append(types, c.Type())
		}
	}
	return types
}

// Reducer is a whole-state reducer composed from bindings.
type Reducer[S any] struct {
	initial  S
	bindings []Binding[S]
	byType   map[string][]int
	drafted  bool
}

// Create composes bindings into a reducer. When several bindings handle the
// same type they all run, in the order given, each receiving the state the
// previous one returned. Unhandled types return the state unchanged.
func Create[S any](initial S, bindings ...Binding[S]) *Reducer[S] {
	r := &Reducer[S]{
		initial:  initial,
		bindings: bindings,
		byType:   make(map[string][]int),
	}
	for i, b := range bindings {
		for _, typ := range b.Types {
			if idx := r.byType[typ]; len(idx) == 0 || idx[len(idx)-1] != i {
				r.byType[typ] = append(idx, i)
			}
		}
	}
	return r
}

// CreateDraft is Create with the whole reducer wrapped in draft.Produce.
// OnPlain bindings then receive a draft value: changes they make to it, or a
// returned state that equals the input, leave the state reference
// untouched.
func CreateDraft[S any](initial S, bindings ...Binding[S]) *Reducer[S] {
	r := Create(initial, bindings...)
	r.drafted = true
	return r
}

// Initial returns the initial state.
func (r *Reducer[S]) Initial() S {
	return r.initial
}

// Types lists every handled event type in first-registration order.
func (r *Reducer[S]) Types() []string {
	var types []string
	for _, b := range r.bindings {
		for _, typ := range b.Types {
			if !slices.Contains(types, typ) {
				types = append(types, typ)
			}
		}
	}
	return types
}

// Handles reports whether any binding handles typ.
func (r *Reducer[S]) Handles(typ string) bool {
	return len(r.byType[typ]) > 0
}

// Reduce applies a to s. On error the input state is returned with it.
func (r *Reducer[S]) Reduce(s S, a Action) (S, error) {
	if !r.drafted {
		return r.reduce(s, a)
	}

	var reduceErr error
	next, err := draft.Produce(s, func(d *S) *S {
		out, err := r.reduce(*d, a)
		if err != nil {
			reduceErr = err
			return nil
		}
		*d = out
		return nil
	})
	if reduceErr != nil {
		return s, reduceErr
	}
	if err != nil {
		return s, err
	}
	return next, nil
}

func (r *Reducer[S]) reduce(s S, a Action) (S, error) {
	idx := r.byType[a.Type()]
	if len(idx) == 0 {
		return s, nil
	}

	acc := s
	for _, i := range idx {
		next, err := r.bindings[i].Reduce(acc, a)
		if err != nil {
			return s, err
		}
		acc = next
	}
	return acc, nil
}
