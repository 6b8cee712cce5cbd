package signals

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/tailored-agentic-units/drafts/draft"
)

// Fields is a partial state: field name (or json tag name) to new value.
// Merging replaces each named field wholesale; nested values are never
// merged deeply. Fields promoted from embedded structs are addressed by
// their own name, as encoding/json flattens them. Embedded pointers are not
// followed.
type Fields map[string]any

type assignment struct {
	index []int
	key   reflect.Value
	value reflect.Value
}

// mergeRecipe compiles fields against S and returns a recipe that writes them
// into the draft. All type checks happen here, so the recipe itself cannot
// fail.
func mergeRecipe[S any](fields Fields) (draft.Recipe[S], error) {
	if len(fields) == 0 {
		return draft.Identity[S], nil
	}

	t := reflect.TypeFor[S]()
	names := slices.Sorted(maps.Keys(fields))
	sets := make([]assignment, 0, len(names))

	switch t.Kind() {
	case reflect.Struct:
		for _, name := range names {
			f, ok := lookupField(t, name)
			if !ok {
				return nil, fmt.Errorf("%w: %s has no field %q", ErrTypeMismatch, t, name)
			}
			v, err := assignable(name, fields[name], f.Type)
			if err != nil {
				return nil, err
			}
			sets = append(sets, assignment{index: f.Index, value: v})
		}

		return func(d *S) *S {
			dv := reflect.ValueOf(d).Elem()
			for _, a := range sets {
				dv.FieldByIndex(a.index).Set(a.value)
			}
			return nil
		}, nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map state needs string keys, got %s", ErrTypeMismatch, t.Key())
		}
		for _, name := range names {
			v, err := assignable(name, fields[name], t.Elem())
			if err != nil {
				return nil, err
			}
			key := reflect.ValueOf(name).Convert(t.Key())
			sets = append(sets, assignment{key: key, value: v})
		}

		return func(d *S) *S {
			dv := reflect.ValueOf(d).Elem()
			if dv.IsNil() {
				dv.Set(reflect.MakeMapWithSize(t, len(sets)))
			}
			for _, a := range sets {
				dv.SetMapIndex(a.key, a.value)
			}
			return nil
		}, nil

	default:
		return nil, fmt.Errorf("%w: partial updates need struct or map state, got %s", ErrTypeMismatch, t)
	}
}

// lookupField finds an exported field by Go name or json tag name. Outer
// fields shadow promoted ones; the returned Index is the full path.
func lookupField(t reflect.Type, name string) (reflect.StructField, bool) {
	var embedded []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && jsonName(f) == "" {
			embedded = append(embedded, f)
		}
		if !f.IsExported() {
			continue
		}
		if f.Name == name || jsonName(f) == name {
			return f, true
		}
	}

	for _, e := range embedded {
		if f, ok := lookupField(e.Type, name); ok {
			f.Index = append(slices.Clone(e.Index), f.Index...)
			return f, true
		}
	}
	return reflect.StructField{}, false
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func assignable(name string, v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: field %q of type %s cannot be nil", ErrTypeMismatch, name, t)
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: field %q is %s, got %s", ErrTypeMismatch, name, t, rv.Type())
	}
	return rv, nil
}

// fieldGetter returns an accessor for one field (struct state) or key (map
// state) of S. Missing map keys read as nil.
func fieldGetter[S any](field string) (func(S) any, error) {
	t := reflect.TypeFor[S]()

	switch t.Kind() {
	case reflect.Struct:
		f, ok := lookupField(t, field)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no field %q", ErrTypeMismatch, t, field)
		}
		index := f.Index
		return func(s S) any {
			return reflect.ValueOf(&s).Elem().FieldByIndex(index).Interface()
		}, nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map state needs string keys, got %s", ErrTypeMismatch, t.Key())
		}
		key := reflect.ValueOf(field).Convert(t.Key())
		return func(s S) any {
			v := reflect.ValueOf(s).MapIndex(key)
			if !v.IsValid() {
				return nil
			}
			return v.Interface()
		}, nil

	default:
		return nil, fmt.Errorf("%w: cannot watch fields of %s", ErrTypeMismatch, t)
	}
}
