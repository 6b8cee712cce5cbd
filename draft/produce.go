package draft

import "reflect"

// Recipe mutates the draft in place and returns nil, or returns a
// replacement value without touching the draft. Returning the draft pointer
// itself counts as an in-place update.
type Recipe[S any] func(d *S) *S

// Produce runs recipe against a deep copy of base and finalizes the result.
// See the package documentation for the identity and sharing guarantees.
func Produce[S any](base S, recipe Recipe[S]) (S, error) {
	d := Clone(base)
	ret := recipe(&d)
	modified := !Equal(base, d)

	if ret != nil && ret != &d {
		if modified {
			var zero S
			return zero, ErrConflictingUpdate
		}
		return finalize(base, *ret), nil
	}

	if !modified {
		return base, nil
	}
	return finalize(base, d), nil
}

// Reducer wraps a draft reducer into a plain (state, input) reducer. Every
// call goes through Produce, so the returned state is base itself when the
// reducer changed nothing.
//
// Example:
//
//	add := draft.Reducer(func(d *Todos, item string) *Todos {
//	    d.Items = append(d.Items, item)
//	    return nil
//	})
//	next, err := add(state, "milk")
func Reducer[S, In any](fn func(d *S, in In) *S) func(S, In) (S, error) {
	return func(state S, in In) (S, error) {
		return Produce(state, func(d *S) *S {
			return fn(d, in)
		})
	}
}

// Identity is the recipe that changes nothing.
func Identity[S any](*S) *S {
	return nil
}

// Clone returns a deep copy of v. Exported fields, map entries, slice and
// array elements are copied recursively; everything else is copied by value.
func Clone[S any](v S) S {
	var out S
	src := reflect.ValueOf(&v).Elem()
	reflect.ValueOf(&out).Elem().Set(cloneValue(src))
	return out
}

// Equal reports whether a and b are deeply equal. Unlike reflect.DeepEqual,
// functions and channels compare by identity, so values carrying callbacks
// can still be equal.
func Equal(a, b any) bool {
	return equalValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

// Same reports whether a and b are the same value by reference: pointers,
// maps, functions and channels must be identical, slices must share their
// backing array and length, and scalars must be equal.
func Same(a, b any) bool {
	return sameValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func finalize[S any](base, next S) S {
	var out S
	bv := reflect.ValueOf(&base).Elem()
	nv := reflect.ValueOf(&next).Elem()
	reflect.ValueOf(&out).Elem().Set(share(bv, nv))
	return out
}
