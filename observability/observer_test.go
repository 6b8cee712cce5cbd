package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/tailored-agentic-units/drafts/observability"
)

type captureObserver struct {
	events *[]observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	*c.events = append(*c.events, event)
}

func commitEvent() observability.Event {
	return observability.Event{
		Type:      "container.commit",
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "container",
		Data:      map[string]any{"version": 3, "name": "todos"},
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  string
	}{
		{level: 1, want: "TRACE"},
		{level: observability.LevelVerbose, want: "DEBUG"},
		{level: observability.LevelInfo, want: "INFO"},
		{level: observability.LevelWarning, want: "WARN"},
		{level: observability.LevelError, want: "ERROR"},
		{level: 21, want: "FATAL"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  slog.Level
	}{
		{level: observability.LevelVerbose, want: slog.LevelDebug},
		{level: observability.LevelInfo, want: slog.LevelInfo},
		{level: observability.LevelWarning, want: slog.LevelWarn},
		{level: observability.LevelError, want: slog.LevelError},
		{level: 24, want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.SlogLevel(); got != tt.want {
				t.Errorf("Level(%d).SlogLevel() = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestEmit_NilObserver(t *testing.T) {
	observability.Emit(context.Background(), nil, commitEvent())
}

func TestNewEvent_StampsTime(t *testing.T) {
	before := time.Now()
	event := observability.NewEvent("container.noop", observability.LevelVerbose, "container", nil)
	if event.Timestamp.Before(before) {
		t.Errorf("Timestamp %v before %v", event.Timestamp, before)
	}
	if event.Source != "container" {
		t.Errorf("Source = %q, want container", event.Source)
	}
}

func TestMultiObserver(t *testing.T) {
	var first, second []observability.Event
	multi := observability.NewMultiObserver(nil, &captureObserver{events: &first}, nil, &captureObserver{events: &second})

	if multi.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (nil observers dropped)", multi.Len())
	}

	multi.OnEvent(context.Background(), commitEvent())

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("got %d and %d events, want 1 each", len(first), len(second))
	}
	if first[0].Type != "container.commit" {
		t.Errorf("Type = %q, want container.commit", first[0].Type)
	}
}

func TestSlogObserver_Output(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	observability.NewSlogObserver(logger).OnEvent(context.Background(), commitEvent())

	out := buf.String()
	for _, want := range []string{"container.commit", "source=container", "name=todos", "version=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
	if strings.Index(out, "name=todos") > strings.Index(out, "version=3") {
		t.Errorf("attributes not sorted: %s", out)
	}
}

func TestSlogObserver_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	observability.NewSlogObserver(logger).OnEvent(context.Background(), commitEvent())

	if buf.Len() != 0 {
		t.Errorf("verbose event logged at info level: %q", buf.String())
	}
}

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()

	obs, err := observability.NewPrometheusObserver(reg)
	if err != nil {
		t.Fatalf("NewPrometheusObserver() error = %v", err)
	}

	obs.OnEvent(context.Background(), commitEvent())
	obs.OnEvent(context.Background(), commitEvent())

	again, err := observability.NewPrometheusObserver(reg)
	if err != nil {
		t.Fatalf("second NewPrometheusObserver() error = %v", err)
	}
	again.OnEvent(context.Background(), commitEvent())

	count, err := testutil.GatherAndCount(reg, "drafts_events_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("series = %d, want 1", count)
	}

	expected := `
# HELP drafts_events_total State container events by type, source and level
# TYPE drafts_events_total counter
drafts_events_total{level="DEBUG",source="container",type="container.commit"} 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "drafts_events_total"); err != nil {
		t.Errorf("GatherAndCompare() error = %v", err)
	}
}

func TestOTelObserver(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	obs, err := observability.NewOTelObserver(provider)
	if err != nil {
		t.Fatalf("NewOTelObserver() error = %v", err)
	}

	ctx := context.Background()
	obs.OnEvent(ctx, commitEvent())
	obs.OnEvent(ctx, commitEvent())

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "drafts.events" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("drafts.events data = %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 2 {
		t.Errorf("drafts.events total = %d, want 2", total)
	}
}

func TestRegistry(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "noop registered", key: "noop"},
		{name: "slog registered", key: "slog"},
		{name: "unknown", key: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := observability.GetObserver(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetObserver(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if !tt.wantErr && obs == nil {
				t.Errorf("GetObserver(%q) returned nil", tt.key)
			}
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	var events []observability.Event
	observability.RegisterObserver("test-capture", &captureObserver{events: &events})

	obs, err := observability.GetObserver("test-capture")
	if err != nil {
		t.Fatalf("GetObserver() error = %v", err)
	}
	obs.OnEvent(context.Background(), commitEvent())

	if len(events) != 1 {
		t.Errorf("received %d events, want 1", len(events))
	}

	found := false
	for _, name := range observability.ObserverNames() {
		if name == "test-capture" {
			found = true
		}
	}
	if !found {
		t.Error("ObserverNames() missing test-capture")
	}
}
