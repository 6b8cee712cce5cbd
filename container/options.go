package container

import (
	"github.com/tailored-agentic-units/drafts/checkpoint"
	"github.com/tailored-agentic-units/drafts/observability"
)

type options struct {
	name     string
	observer observability.Observer
	store    checkpoint.Store
	interval int
	codec    checkpoint.Codec
}

// Option configures a Container at construction.
type Option func(*options)

// WithName labels the container in events and names its snapshots.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithObserver routes container events to obs.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithCheckpoint saves a snapshot to store after every interval commits.
// A nil store or an interval below one disables checkpointing.
func WithCheckpoint(store checkpoint.Store, interval int) Option {
	return func(o *options) {
		o.store = store
		o.interval = interval
	}
}

// WithCodec sets the snapshot encoding. The default is checkpoint.JSONCodec.
func WithCodec(codec checkpoint.Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

func buildOptions(opts []Option) options {
	o := options{
		observer: observability.NoOpObserver{},
		codec:    checkpoint.JSONCodec{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = observability.NoOpObserver{}
	}
	if o.codec == nil {
		o.codec = checkpoint.JSONCodec{}
	}
	return o
}
