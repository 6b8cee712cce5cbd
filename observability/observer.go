// Package observability carries state-change notifications out of the
// containers for logging and metrics. Containers emit an Event for every
// commit, no-op, conflict and checkpoint; Observers decide what to do with
// them. Level values follow OpenTelemetry SeverityNumber ranges so events can
// be forwarded to OTel pipelines without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is the event severity, aligned with OTel SeverityNumber.
type Level int

const (
	LevelVerbose Level = 5  // DEBUG range (5-8)
	LevelInfo    Level = 9  // INFO range (9-12)
	LevelWarning Level = 13 // WARN range (13-16)
	LevelError   Level = 17 // ERROR range (17-20)
)

var levelBands = []struct {
	upper int
	text  string
	slog  slog.Level
}{
	{4, "TRACE", slog.LevelDebug},
	{8, "DEBUG", slog.LevelDebug},
	{12, "INFO", slog.LevelInfo},
	{16, "WARN", slog.LevelWarn},
	{20, "ERROR", slog.LevelError},
}

// String returns the OTel severity text.
func (l Level) String() string {
	for _, b := range levelBands {
		if int(l) <= b.upper {
			return b.text
		}
	}
	return "FATAL"
}

// SlogLevel maps the level onto slog.
func (l Level) SlogLevel() slog.Level {
	for _, b := range levelBands {
		if int(l) <= b.upper {
			return b.slog
		}
	}
	return slog.LevelError
}

// EventType names an event. Packages declare their own constants
// ("container.commit", "reducer.dispatch", ...).
type EventType string

// Event is a single notification. Source is the emitting component and Data
// holds flat attributes (container id, version, action type, ...).
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// NewEvent stamps an event with the current time.
func NewEvent(typ EventType, level Level, source string, data map[string]any) Event {
	return Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	}
}

// Observer receives events. Implementations must not call back into the
// container that emitted the event while handling it.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Emit sends event to obs, tolerating a nil observer.
func Emit(ctx context.Context, obs Observer, event Event) {
	if obs == nil {
		return
	}
	obs.OnEvent(ctx, event)
}
