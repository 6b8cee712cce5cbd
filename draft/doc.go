// Package draft turns "mutate a copy" recipes into structurally shared
// immutable values.
//
// A Recipe receives a pointer to a private deep copy (the draft) of the base
// value. It either mutates the draft and returns nil, or leaves the draft
// untouched and returns a replacement. Produce then finalizes the outcome:
//
//   - nothing changed: the base value itself is returned, so every reference
//     inside it (pointers, maps, slices) is preserved
//   - something changed: a new value is returned in which every sub-tree that
//     is deep-equal to the base keeps the base's reference
//   - the recipe both mutated the draft and returned a replacement:
//     ErrConflictingUpdate
//
// Modification is detected by comparing the draft with the base after the
// recipe returns. A recipe that changes the draft, reverts the change and
// then returns a replacement is not reported as a conflict; the replacement
// wins.
//
// Example:
//
//	type Todos struct {
//	    Items []string
//	    Done  map[string]bool
//	}
//
//	next, err := draft.Produce(base, func(d *Todos) *Todos {
//	    d.Items = append(d.Items, "milk")
//	    return nil
//	})
//	// next.Done is the same map as base.Done
//
// Only exported fields are copied and compared deeply. Unexported fields are
// copied by value, so data reachable through them is shared with the base and
// must not be mutated from a recipe. Function, channel and unsafe pointer
// values are compared by identity. Cyclic pointer graphs are not supported.
package draft
