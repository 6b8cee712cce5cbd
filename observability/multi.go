package observability

import "context"

// MultiObserver forwards every event to each wrapped observer in order.
// The observer list is fixed at construction.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver drops nil entries; an empty result behaves like
// NoOpObserver.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	kept := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs == nil {
			continue
		}
		kept = append(kept, obs)
	}
	return &MultiObserver{observers: kept}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// Len returns the number of wrapped observers.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}
