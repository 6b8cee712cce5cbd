// Package host wires configuration into the pieces every state container
// needs: an observer, an optional checkpoint store and a snapshot codec.
//
//	cfg, err := host.LoadConfig("drafts.yaml")
//	h, err := host.New(cfg)
//	defer h.Close()
//	todos := reducer.NewStore(r, h.ContainerOptions("todos")...)
package host

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/tailored-agentic-units/drafts/checkpoint"
	"github.com/tailored-agentic-units/drafts/container"
	"github.com/tailored-agentic-units/drafts/observability"
)

// Option configures a Host after config-driven initialization.
type Option func(*Host)

// WithLogger replaces the configured observer with a SlogObserver on logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) { h.observer = observability.NewSlogObserver(logger) }
}

// WithObserver replaces the configured observer.
func WithObserver(o observability.Observer) Option {
	return func(h *Host) { h.observer = o }
}

// WithStore replaces the configured checkpoint store.
func WithStore(s checkpoint.Store) Option {
	return func(h *Host) { h.store = s }
}

// WithRegisterer sets where the prometheus sink registers its collectors.
// The default is a private registry, see Host.Gatherer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(h *Host) { h.registerer = reg }
}

// WithMeterProvider sets the provider for the otel sink. The default is the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(h *Host) { h.meterProvider = mp }
}

// Host holds the shared dependencies of a set of containers.
type Host struct {
	cfg           Config
	observer      observability.Observer
	store         checkpoint.Store
	codec         checkpoint.Codec
	registry      *prometheus.Registry
	registerer    prometheus.Registerer
	meterProvider metric.MeterProvider
}

// New creates a Host from configuration. The observer and checkpoint store
// are resolved from their registries; options applied afterwards override
// them.
func New(cfg *Config, opts ...Option) (*Host, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	codec, err := checkpoint.CodecByName(cfg.Checkpoint.Codec)
	if err != nil {
		return nil, err
	}

	store, err := checkpoint.NewStore(&cfg.Checkpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	h := &Host{
		cfg:      *cfg,
		observer: observer,
		store:    store,
		codec:    codec,
	}

	for _, opt := range opts {
		opt(h)
	}

	if err := h.attachMetrics(); err != nil {
		h.Close()
		return nil, err
	}

	return h, nil
}

func (h *Host) attachMetrics() error {
	if len(h.cfg.Metrics) == 0 {
		return nil
	}

	sinks := []observability.Observer{h.observer}
	for _, name := range h.cfg.Metrics {
		switch name {
		case "prometheus":
			if h.registerer == nil {
				h.registry = prometheus.NewRegistry()
				h.registerer = h.registry
			}
			obs, err := observability.NewPrometheusObserver(h.registerer)
			if err != nil {
				return fmt.Errorf("failed to create prometheus sink: %w", err)
			}
			sinks = append(sinks, obs)
		case "otel":
			mp := h.meterProvider
			if mp == nil {
				mp = otel.GetMeterProvider()
			}
			obs, err := observability.NewOTelObserver(mp)
			if err != nil {
				return fmt.Errorf("failed to create otel sink: %w", err)
			}
			sinks = append(sinks, obs)
		default:
			return fmt.Errorf("unknown metrics sink: %s", name)
		}
	}

	h.observer = observability.NewMultiObserver(sinks...)
	return nil
}

// Name returns the configured host name.
func (h *Host) Name() string {
	return h.cfg.Name
}

// Observer returns the observer handed to every container.
func (h *Host) Observer() observability.Observer {
	return h.observer
}

// Store returns the checkpoint store, or nil when checkpointing is disabled.
func (h *Host) Store() checkpoint.Store {
	return h.store
}

// Gatherer exposes the private prometheus registry, or nil when the
// prometheus sink is off or registers elsewhere.
func (h *Host) Gatherer() prometheus.Gatherer {
	if h.registry == nil {
		return nil
	}
	return h.registry
}

// ContainerOptions returns the options for a container called name:
// "<host name>.<name>" in events and as its snapshot key.
func (h *Host) ContainerOptions(name string) []container.Option {
	full := name
	if h.cfg.Name != "" {
		full = h.cfg.Name + "." + name
	}

	opts := []container.Option{
		container.WithName(full),
		container.WithObserver(h.observer),
		container.WithCodec(h.codec),
	}
	if h.store != nil {
		// an interval of 0 still allows Restore and explicit Checkpoint calls
		opts = append(opts, container.WithCheckpoint(h.store, h.cfg.Checkpoint.Interval))
	}
	return opts
}

// Close releases the checkpoint store when it holds resources.
func (h *Host) Close() error {
	if closer, ok := h.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
