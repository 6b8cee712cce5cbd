package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tailored-agentic-units/drafts"

// OTelObserver records every event on an OpenTelemetry Int64Counter named
// drafts.events.
type OTelObserver struct {
	events metric.Int64Counter
}

// NewOTelObserver builds the counter from provider, or from the global
// MeterProvider when provider is nil.
func NewOTelObserver(provider metric.MeterProvider) (*OTelObserver, error) {
	var meter metric.Meter
	if provider != nil {
		meter = provider.Meter(instrumentationName)
	} else {
		meter = otel.Meter(instrumentationName)
	}

	events, err := meter.Int64Counter(
		"drafts.events",
		metric.WithDescription("State container events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelObserver{events: events}, nil
}

func (o *OTelObserver) OnEvent(ctx context.Context, event Event) {
	o.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.type", string(event.Type)),
		attribute.String("event.source", event.Source),
		attribute.String("event.severity", event.Level.String()),
	))
}
