package reducer

import "fmt"

// Action is anything that can be dispatched to a reducer.
type Action interface {
	Type() string
}

// Event is an Action carrying a typed payload.
type Event[P any] struct {
	Kind    string
	Payload P
}

func (e Event[P]) Type() string {
	return e.Kind
}

// Empty is the payload of events that carry none.
type Empty = struct{}

// Creator describes one event type and builds events of it.
type Creator[P any] struct {
	kind string
}

// Define declares an event type.
func Define[P any](kind string) Creator[P] {
	return Creator[P]{kind: kind}
}

// Sourced declares an event type named after the component that emits it,
// in the form "[Source] name".
func Sourced[P any](source, name string) Creator[P] {
	return Creator[P]{kind: fmt.Sprintf("[%s] %s", source, name)}
}

// Type returns the event type string.
func (c Creator[P]) Type() string {
	return c.kind
}

// With builds an event carrying payload.
func (c Creator[P]) With(payload P) Event[P] {
	return Event[P]{Kind: c.kind, Payload: payload}
}

// Event builds an event with the zero payload.
func (c Creator[P]) Event() Event[P] {
	return Event[P]{Kind: c.kind}
}

// eventOf recovers the typed event from a dispatched action. Event[P],
// *Event[P] and actions whose own type is P are accepted.
func eventOf[P any](a Action) (Event[P], error) {
	switch e := a.(type) {
	case Event[P]:
		return e, nil
	case *Event[P]:
		return *e, nil
	}
	if p, ok := a.(P); ok {
		return Event[P]{Kind: a.Type(), Payload: p}, nil
	}
	var want P
	return Event[P]{}, fmt.Errorf("%w: %q carries %T, want payload %T", ErrPayloadMismatch, a.Type(), a, want)
}
