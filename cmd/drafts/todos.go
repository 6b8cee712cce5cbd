package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tailored-agentic-units/drafts/reducer"
)

type Todo struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type Todos struct {
	Items []Todo `json:"items"`
}

var (
	addTodo    = reducer.Sourced[string]("Todos", "Add")
	removeTodo = reducer.Sourced[int]("Todos", "Remove")
	toggleTodo = reducer.Sourced[int]("Todos", "Toggle")
	clearTodos = reducer.Sourced[reducer.Empty]("Todos", "Clear")
	resetTodos = reducer.Sourced[reducer.Empty]("Todos", "Reset")
)

func todosReducer() *reducer.Reducer[Todos] {
	return reducer.Create(Todos{Items: []Todo{}},
		reducer.On([]reducer.Creator[string]{addTodo}, func(d *Todos, e reducer.Event[string]) *Todos {
			d.Items = append(d.Items, Todo{Title: e.Payload})
			return nil
		}),
		reducer.On([]reducer.Creator[int]{removeTodo}, func(d *Todos, e reducer.Event[int]) *Todos {
			if e.Payload < 0 || e.Payload >= len(d.Items) {
				return d
			}
			d.Items = slices.Delete(d.Items, e.Payload, e.Payload+1)
			return nil
		}),
		reducer.On([]reducer.Creator[int]{toggleTodo}, func(d *Todos, e reducer.Event[int]) *Todos {
			if e.Payload < 0 || e.Payload >= len(d.Items) {
				return d
			}
			d.Items[e.Payload].Done = !d.Items[e.Payload].Done
			return nil
		}),
		reducer.On([]reducer.Creator[reducer.Empty]{clearTodos, resetTodos}, func(d *Todos, _ reducer.Event[reducer.Empty]) *Todos {
			d.Items = []Todo{}
			return nil
		}),
	)
}

// parseOp turns "add:milk", "remove:0", "toggle:1", "clear" or "reset" into
// an action.
func parseOp(op string) (reducer.Action, error) {
	verb, arg, _ := strings.Cut(op, ":")

	switch verb {
	case "add":
		if arg == "" {
			return nil, fmt.Errorf("add needs a title: %q", op)
		}
		return addTodo.With(arg), nil
	case "remove", "toggle":
		index, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%s needs an index: %q", verb, op)
		}
		if verb == "remove" {
			return removeTodo.With(index), nil
		}
		return toggleTodo.With(index), nil
	case "clear":
		return clearTodos.Event(), nil
	case "reset":
		return resetTodos.Event(), nil
	default:
		return nil, fmt.Errorf("unknown operation: %q", op)
	}
}
