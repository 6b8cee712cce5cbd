package draft

import (
	"math"
	"reflect"
)

func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		n := reflect.New(v.Type().Elem())
		n.Elem().Set(cloneValue(v.Elem()))
		return n

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		n := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			n.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return n

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		n := reflect.MakeSlice(v.Type(), v.Len(), v.Cap())
		for i := 0; i < v.Len(); i++ {
			n.Index(i).Set(cloneValue(v.Index(i)))
		}
		return n

	case reflect.Array:
		n := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			n.Index(i).Set(cloneValue(v.Index(i)))
		}
		return n

	case reflect.Struct:
		n := reflect.New(v.Type()).Elem()
		n.Set(v)
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			n.Field(i).Set(cloneValue(v.Field(i)))
		}
		return n

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		n := reflect.New(v.Type()).Elem()
		n.Set(cloneValue(v.Elem()))
		return n

	default:
		return v
	}
}

// equalValue never calls Interface, so it also works on values reached
// through unexported fields.
func equalValue(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Pointer:
		if a.Pointer() == b.Pointer() {
			return true
		}
		if a.IsNil() || b.IsNil() {
			return false
		}
		return equalValue(a.Elem(), b.Elem())

	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !equalValue(iter.Value(), bv) {
				return false
			}
		}
		return true

	case reflect.Slice:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		for i := 0; i < a.Len(); i++ {
			if !equalValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !equalValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !equalValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true

	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equalValue(a.Elem(), b.Elem())

	default:
		return equalScalar(a, b)
	}
}

func sameValue(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()

	case reflect.Slice:
		return a.IsNil() == b.IsNil() &&
			a.Pointer() == b.Pointer() &&
			a.Len() == b.Len() &&
			a.Cap() == b.Cap()

	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !sameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !sameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true

	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return sameValue(a.Elem(), b.Elem())

	default:
		return equalScalar(a, b)
	}
}

func equalScalar(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return math.Float64bits(a.Float()) == math.Float64bits(b.Float())
	case reflect.Complex64, reflect.Complex128:
		ac, bc := a.Complex(), b.Complex()
		return math.Float64bits(real(ac)) == math.Float64bits(real(bc)) &&
			math.Float64bits(imag(ac)) == math.Float64bits(imag(bc))
	case reflect.String:
		return a.String() == b.String()
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	default:
		return false
	}
}

// share builds the finalized value for next, re-using every sub-tree of base
// that is deep-equal to the corresponding sub-tree of next. Containers that
// differ are rebuilt fresh so base is never written to.
func share(base, next reflect.Value) reflect.Value {
	if equalValue(base, next) {
		return base
	}
	if !base.IsValid() || !next.IsValid() || base.Type() != next.Type() {
		return next
	}

	switch next.Kind() {
	case reflect.Pointer:
		if base.IsNil() || next.IsNil() {
			return next
		}
		n := reflect.New(next.Type().Elem())
		n.Elem().Set(share(base.Elem(), next.Elem()))
		return n

	case reflect.Map:
		if base.IsNil() || next.IsNil() {
			return next
		}
		n := reflect.MakeMapWithSize(next.Type(), next.Len())
		iter := next.MapRange()
		for iter.Next() {
			v := iter.Value()
			if bv := base.MapIndex(iter.Key()); bv.IsValid() {
				v = share(bv, v)
			}
			n.SetMapIndex(iter.Key(), v)
		}
		return n

	case reflect.Slice:
		if base.IsNil() || next.IsNil() {
			return next
		}
		n := reflect.MakeSlice(next.Type(), next.Len(), next.Len())
		for i := 0; i < next.Len(); i++ {
			n.Index(i).Set(shareElem(base, next, i))
		}
		return n

	case reflect.Array:
		n := reflect.New(next.Type()).Elem()
		for i := 0; i < next.Len(); i++ {
			n.Index(i).Set(share(base.Index(i), next.Index(i)))
		}
		return n

	case reflect.Struct:
		n := reflect.New(next.Type()).Elem()
		n.Set(next)
		t := next.Type()
		for i := 0; i < next.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			n.Field(i).Set(share(base.Field(i), next.Field(i)))
		}
		return n

	case reflect.Interface:
		if base.IsNil() || next.IsNil() {
			return next
		}
		be, ne := base.Elem(), next.Elem()
		if be.Type() != ne.Type() {
			return next
		}
		n := reflect.New(next.Type()).Elem()
		n.Set(share(be, ne))
		return n

	default:
		return next
	}
}

// shareElem matches slice element i of next against base by position first,
// then aligned from the end, which keeps sharing intact across a single
// insertion or removal.
func shareElem(base, next reflect.Value, i int) reflect.Value {
	elem := next.Index(i)
	if i < base.Len() && equalValue(base.Index(i), elem) {
		return base.Index(i)
	}
	if j := i + base.Len() - next.Len(); j >= 0 && j < base.Len() && equalValue(base.Index(j), elem) {
		return base.Index(j)
	}
	if i < base.Len() {
		return share(base.Index(i), elem)
	}
	return elem
}
