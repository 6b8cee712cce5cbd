package checkpoint

import "fmt"

// Config selects and tunes the snapshot store.
//
// Store values:
//   - "" or "none": checkpointing disabled
//   - "memory": in-process store
//   - "file": NewFileStore(Path)
//   - "pebble": NewPebbleStore(Path)
//   - any name added with Register
//
// Example JSON:
//
//	{"store": "pebble", "path": "/var/lib/todos", "interval": 10, "cache_size": 64, "codec": "proto"}
type Config struct {
	Store     string `json:"store,omitempty" yaml:"store,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Interval  int    `json:"interval,omitempty" yaml:"interval,omitempty"`
	CacheSize int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	Codec     string `json:"codec,omitempty" yaml:"codec,omitempty"`
}

// DefaultConfig disables checkpointing.
func DefaultConfig() Config {
	return Config{
		Store: "none",
		Codec: "json",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Store != "" {
		c.Store = source.Store
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.Interval > 0 {
		c.Interval = source.Interval
	}
	if source.CacheSize > 0 {
		c.CacheSize = source.CacheSize
	}
	if source.Codec != "" {
		c.Codec = source.Codec
	}
}

// Enabled reports whether a store is configured and snapshots are taken.
func (c *Config) Enabled() bool {
	return c.Store != "" && c.Store != "none" && c.Interval > 0
}

// NewStore builds the configured Store. It returns a nil Store when
// checkpointing is disabled.
func NewStore(cfg *Config) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Store {
	case "", "none":
		return nil, nil
	case "memory":
		store = NewMemoryStore()
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file checkpoint store requires a path")
		}
		store = NewFileStore(cfg.Path)
	case "pebble":
		if cfg.Path == "" {
			return nil, fmt.Errorf("pebble checkpoint store requires a path")
		}
		store, err = NewPebbleStore(cfg.Path)
		if err != nil {
			return nil, err
		}
	default:
		store, err = Get(cfg.Store)
		if err != nil {
			return nil, err
		}
	}

	if cfg.CacheSize > 0 {
		cached, err := NewCachedStore(store, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return cached, nil
	}
	return store, nil
}
