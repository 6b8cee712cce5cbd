package signals

import "github.com/tailored-agentic-units/drafts/draft"

// Kind tells which form an Updater was built from.
type Kind int

const (
	KindPartial Kind = iota + 1
	KindPartialFunc
	KindMutate
)

func (k Kind) String() string {
	switch k {
	case KindPartial:
		return "partial"
	case KindPartialFunc:
		return "partial-func"
	case KindMutate:
		return "mutate"
	default:
		return "none"
	}
}

// Updater is one patch instruction. Build it with Partial, PartialFunc or
// Mutate; the zero Updater changes nothing.
type Updater[S any] struct {
	kind   Kind
	fields Fields
	fn     func(S) Fields
	recipe draft.Recipe[S]
}

// Partial merges fields into the state.
func Partial[S any](fields Fields) Updater[S] {
	return Updater[S]{kind: KindPartial, fields: fields}
}

// PartialFunc computes the fields to merge from the current state. A nil or
// empty result is a no-op.
func PartialFunc[S any](fn func(S) Fields) Updater[S] {
	return Updater[S]{kind: KindPartialFunc, fn: fn}
}

// Mutate runs a draft recipe.
func Mutate[S any](recipe draft.Recipe[S]) Updater[S] {
	return Updater[S]{kind: KindMutate, recipe: recipe}
}

func (u Updater[S]) Kind() Kind {
	return u.kind
}

// Normalize turns u into a draft recipe bound to current.
//
// Partial and PartialFunc updaters become recipes that assign the named
// fields on the draft; PartialFunc is called with current, never with the
// draft. Fields that S does not have, or values of the wrong type, fail with
// ErrTypeMismatch before any recipe runs.
func Normalize[S any](current S, u Updater[S]) (draft.Recipe[S], error) {
	switch u.kind {
	case KindPartial:
		return mergeRecipe[S](u.fields)
	case KindPartialFunc:
		if u.fn == nil {
			return draft.Identity[S], nil
		}
		return mergeRecipe[S](u.fn(current))
	case KindMutate:
		if u.recipe == nil {
			return draft.Identity[S], nil
		}
		return u.recipe, nil
	default:
		return draft.Identity[S], nil
	}
}

// Apply normalizes u against s and runs it through draft.Produce.
func Apply[S any](s S, u Updater[S]) (S, error) {
	recipe, err := Normalize(s, u)
	if err != nil {
		return s, err
	}
	return draft.Produce(s, recipe)
}

// Fold applies updaters in order, each against the result of the one before.
// The first error stops the fold and s is returned unchanged.
func Fold[S any](s S, updaters ...Updater[S]) (S, error) {
	acc := s
	for _, u := range updaters {
		next, err := Apply(acc, u)
		if err != nil {
			return s, err
		}
		acc = next
	}
	return acc, nil
}
