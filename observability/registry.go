package observability

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

var observers = newRegistry()

func newRegistry() *xsync.MapOf[string, Observer] {
	m := xsync.NewMapOf[string, Observer]()
	m.Store("noop", NoOpObserver{})
	m.Store("slog", NewSlogObserver(slog.Default()))
	return m
}

// GetObserver resolves a registered observer by name. "noop" and "slog"
// (slog.Default) are always available unless replaced.
func GetObserver(name string) (Observer, error) {
	obs, ok := observers.Load(name)
	if !ok {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

// RegisterObserver adds or replaces a named observer, making it selectable
// from configuration.
func RegisterObserver(name string, observer Observer) {
	observers.Store(name, observer)
}

// ObserverNames lists the registered names in sorted order.
func ObserverNames() []string {
	names := make([]string, 0, observers.Size())
	observers.Range(func(name string, _ Observer) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
