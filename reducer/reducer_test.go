package reducer_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/drafts/draft"
	"github.com/tailored-agentic-units/drafts/reducer"
)

type items struct {
	Items      []string `json:"items"`
	OtherItems []string `json:"otherItems"`
}

type itemPayload struct{ Item string }
type indexPayload struct{ Index int }

var (
	addItem      = reducer.Define[itemPayload]("add item")
	deleteItem   = reducer.Define[indexPayload]("delete item")
	addOtherItem = reducer.Define[itemPayload]("add other item")
)

func newItems() items {
	return items{Items: []string{}, OtherItems: []string{}}
}

// plainReducer mixes plain and draft bindings and relies on CreateDraft.
func plainReducer() *reducer.Reducer[items] {
	return reducer.CreateDraft(newItems(),
		reducer.OnPlain([]reducer.Creator[itemPayload]{addItem}, func(s items, e reducer.Event[itemPayload]) items {
			if e.Payload.Item == "noop" {
				return s
			}
			s.Items = append(s.Items, e.Payload.Item)
			return s
		}),
		reducer.OnPlain([]reducer.Creator[indexPayload]{deleteItem}, func(s items, e reducer.Event[indexPayload]) items {
			s.Items = slices.Delete(s.Items, e.Payload.Index, e.Payload.Index+1)
			return s
		}),
		reducer.On([]reducer.Creator[itemPayload]{addOtherItem}, func(d *items, e reducer.Event[itemPayload]) *items {
			d.OtherItems = append(d.OtherItems, e.Payload.Item)
			return nil
		}),
	)
}

// draftReducer uses draft bindings only, under a plain Create.
func draftReducer() *reducer.Reducer[items] {
	return reducer.Create(newItems(),
		reducer.On([]reducer.Creator[itemPayload]{addItem}, func(d *items, e reducer.Event[itemPayload]) *items {
			if e.Payload.Item == "noop" {
				return nil
			}
			d.Items = append(d.Items, e.Payload.Item)
			return nil
		}),
		reducer.On([]reducer.Creator[indexPayload]{deleteItem}, func(d *items, e reducer.Event[indexPayload]) *items {
			d.Items = slices.Delete(d.Items, e.Payload.Index, e.Payload.Index+1)
			return nil
		}),
		reducer.On([]reducer.Creator[itemPayload]{addOtherItem}, func(d *items, e reducer.Event[itemPayload]) *items {
			d.OtherItems = append(d.OtherItems, e.Payload.Item)
			return nil
		}),
	)
}

func TestReducers(t *testing.T) {
	reducers := map[string]func() *reducer.Reducer[items]{
		"create draft": plainReducer,
		"on":           draftReducer,
	}

	for name, build := range reducers {
		t.Run(name, func(t *testing.T) {
			r := build()

			t.Run("returns the same instance when not modified", func(t *testing.T) {
				initial := newItems()
				state, err := r.Reduce(initial, addItem.With(itemPayload{Item: "noop"}))
				require.NoError(t, err)
				assert.True(t, draft.Same(initial, state))
			})

			t.Run("returns a different instance when modified", func(t *testing.T) {
				initial := newItems()
				state, err := r.Reduce(initial, addItem.With(itemPayload{Item: "item one"}))
				require.NoError(t, err)
				assert.False(t, draft.Same(initial, state))
			})

			t.Run("only updates affected properties", func(t *testing.T) {
				initial := items{Items: []string{"a"}, OtherItems: []string{"b"}}
				state, err := r.Reduce(initial, addItem.With(itemPayload{Item: "item one"}))
				require.NoError(t, err)
				assert.False(t, draft.Same(initial.Items, state.Items))
				assert.True(t, draft.Same(initial.OtherItems, state.OtherItems))
				assert.Equal(t, []string{"a"}, initial.Items, "base must not be mutated")
			})

			t.Run("smoketest", func(t *testing.T) {
				actions := []reducer.Action{
					addItem.With(itemPayload{Item: "item one"}),
					addItem.With(itemPayload{Item: "item two"}),
					addItem.With(itemPayload{Item: "item three"}),
					addOtherItem.With(itemPayload{Item: "other item one"}),
					deleteItem.With(indexPayload{Index: 1}),
				}

				state := newItems()
				for _, a := range actions {
					var err error
					state, err = r.Reduce(state, a)
					require.NoError(t, err)
				}

				assert.Equal(t, items{
					Items:      []string{"item one", "item three"},
					OtherItems: []string{"other item one"},
				}, state)
			})

			t.Run("ignores unknown actions", func(t *testing.T) {
				initial := newItems()
				state, err := r.Reduce(initial, reducer.Define[reducer.Empty]("unknown").Event())
				require.NoError(t, err)
				assert.True(t, draft.Same(initial, state))
			})
		})
	}
}

type todos struct {
	Todos []string `json:"todos"`
}

func TestOn_FanIn(t *testing.T) {
	clearTodos := reducer.Define[reducer.Empty]("clear")
	resetTodos := reducer.Define[reducer.Empty]("reset")

	r := reducer.Create(todos{},
		reducer.On([]reducer.Creator[reducer.Empty]{clearTodos, resetTodos}, func(d *todos, _ reducer.Event[reducer.Empty]) *todos {
			d.Todos = []string{}
			return nil
		}),
	)

	for _, a := range []reducer.Action{clearTodos.Event(), resetTodos.Event()} {
		t.Run(a.Type(), func(t *testing.T) {
			state, err := r.Reduce(todos{Todos: []string{"a", "b"}}, a)
			require.NoError(t, err)
			assert.Equal(t, []string{}, state.Todos)
		})
	}

	assert.Equal(t, []string{"clear", "reset"}, r.Types())
}

func TestOn_ReturningDraftIsNoop(t *testing.T) {
	add := reducer.Define[string]("add")
	r := reducer.Create(todos{Todos: []string{"x"}},
		reducer.On([]reducer.Creator[string]{add}, func(d *todos, e reducer.Event[string]) *todos {
			if slices.Contains(d.Todos, e.Payload) {
				return d
			}
			d.Todos = append(d.Todos, e.Payload)
			return nil
		}),
	)

	initial := r.Initial()
	state, err := r.Reduce(initial, add.With("x"))
	require.NoError(t, err)
	assert.True(t, draft.Same(initial, state))
}

func TestOn_ConflictPropagates(t *testing.T) {
	add := reducer.Define[string]("add")
	r := reducer.Create(todos{},
		reducer.On([]reducer.Creator[string]{add}, func(d *todos, e reducer.Event[string]) *todos {
			d.Todos = append(d.Todos, e.Payload)
			return &todos{}
		}),
	)

	_, err := r.Reduce(todos{}, add.With("x"))
	require.ErrorIs(t, err, draft.ErrConflictingUpdate)
	assert.Contains(t, err.Error(), "returned a new value *and* modified its draft")
}

func TestOn_PayloadMismatch(t *testing.T) {
	add := reducer.Define[string]("add")
	r := reducer.Create(todos{},
		reducer.On([]reducer.Creator[string]{add}, func(d *todos, e reducer.Event[string]) *todos {
			d.Todos = append(d.Todos, e.Payload)
			return nil
		}),
	)

	_, err := r.Reduce(todos{}, reducer.Define[int]("add").With(3))
	assert.ErrorIs(t, err, reducer.ErrPayloadMismatch)
}

func TestBindings_RunInRegistrationOrder(t *testing.T) {
	add := reducer.Define[string]("add")

	appendSuffix := func(suffix string) reducer.Binding[todos] {
		return reducer.OnPlain([]reducer.Creator[string]{add}, func(s todos, e reducer.Event[string]) todos {
			return todos{Todos: append(slices.Clone(s.Todos), e.Payload+suffix)}
		})
	}

	r := reducer.Create(todos{}, appendSuffix("-1"), appendSuffix("-2"))
	state, err := r.Reduce(todos{}, add.With("x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x-1", "x-2"}, state.Todos)
}

func TestBinding_DuplicateCreatorRunsOnce(t *testing.T) {
	add := reducer.Define[string]("add")
	calls := 0

	r := reducer.Create(todos{},
		reducer.OnPlain([]reducer.Creator[string]{add, add}, func(s todos, _ reducer.Event[string]) todos {
			calls++
			return s
		}),
	)

	_, err := r.Reduce(todos{}, add.With("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSourced(t *testing.T) {
	loaded := reducer.Sourced[[]string]("Todos API", "Loaded")
	assert.Equal(t, "[Todos API] Loaded", loaded.Type())
	assert.Equal(t, "[Todos API] Loaded", loaded.With(nil).Type())
}

type rename struct{ To string }

func (rename) Type() string { return "rename" }

func TestOn_CustomActionType(t *testing.T) {
	r := reducer.Create(todos{},
		reducer.On([]reducer.Creator[rename]{reducer.Define[rename]("rename")}, func(d *todos, e reducer.Event[rename]) *todos {
			d.Todos = []string{e.Payload.To}
			return nil
		}),
	)

	state, err := r.Reduce(todos{}, rename{To: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"renamed"}, state.Todos)

	ptr := reducer.Define[rename]("rename").With(rename{To: "ptr"})
	state, err = r.Reduce(todos{}, &ptr)
	require.NoError(t, err)
	assert.Equal(t, []string{"ptr"}, state.Todos)
}

func TestStore(t *testing.T) {
	s := reducer.NewStore(draftReducer())

	var seen []items
	s.Subscribe(func(st items) { seen = append(seen, st) })

	require.NoError(t, s.Dispatch(addItem.With(itemPayload{Item: "one"})))
	require.NoError(t, s.Dispatch(addItem.With(itemPayload{Item: "noop"})))
	require.NoError(t, s.Dispatch(reducer.Define[reducer.Empty]("unknown").Event()))

	assert.Equal(t, []string{"one"}, s.State().Items)
	assert.Len(t, seen, 1)
	assert.EqualValues(t, 1, s.Container().Version())
	assert.True(t, s.Handles("add item"))
	assert.False(t, s.Handles("unknown"))
}

func TestDispatcher(t *testing.T) {
	clearTodos := reducer.Define[reducer.Empty]("clear")
	add := reducer.Define[string]("add")

	a := reducer.NewStore(reducer.Create(todos{Todos: []string{"a"}},
		reducer.On([]reducer.Creator[reducer.Empty]{clearTodos}, func(d *todos, _ reducer.Event[reducer.Empty]) *todos {
			d.Todos = []string{}
			return nil
		}),
	))
	b := reducer.NewStore(reducer.Create(todos{Todos: []string{"b"}},
		reducer.On([]reducer.Creator[reducer.Empty]{clearTodos}, func(d *todos, _ reducer.Event[reducer.Empty]) *todos {
			d.Todos = nil
			return nil
		}),
		reducer.On([]reducer.Creator[string]{add}, func(d *todos, e reducer.Event[string]) *todos {
			d.Todos = append(d.Todos, e.Payload)
			return &todos{}
		}),
	))

	d := reducer.NewDispatcher()
	require.NoError(t, d.Register("a", a))
	require.NoError(t, d.Register("b", b))

	assert.ErrorIs(t, d.Register("a", a), reducer.ErrAlreadyExists)
	assert.ErrorIs(t, d.Register("", a), reducer.ErrEmptyName)
	assert.Equal(t, []string{"a", "b"}, d.Names())

	require.NoError(t, d.Dispatch(clearTodos.Event()))
	assert.Empty(t, a.State().Todos)
	assert.Nil(t, b.State().Todos)

	err := d.Dispatch(add.With("x"))
	require.ErrorIs(t, err, draft.ErrConflictingUpdate)
	assert.Contains(t, err.Error(), "store b")

	require.NoError(t, d.Unregister("b"))
	assert.ErrorIs(t, d.Unregister("b"), reducer.ErrNotFound)
	assert.NoError(t, d.Dispatch(add.With("x")))
}

func TestDispatcher_ContinuesAfterError(t *testing.T) {
	boom := errors.New("boom")
	var order []string

	d := reducer.NewDispatcher()
	require.NoError(t, d.Register("first", targetFunc(func(reducer.Action) error {
		order = append(order, "first")
		return boom
	})))
	require.NoError(t, d.Register("second", targetFunc(func(reducer.Action) error {
		order = append(order, "second")
		return nil
	})))

	err := d.Dispatch(reducer.Define[reducer.Empty]("x").Event())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, order)
}

type targetFunc func(reducer.Action) error

func (f targetFunc) Dispatch(a reducer.Action) error { return f(a) }
