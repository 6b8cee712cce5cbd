package checkpoint_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/drafts/checkpoint"
)

type todoState struct {
	Todos []string `json:"todos"`
	Count int      `json:"count"`
	Owner *string  `json:"owner"`
}

func TestCodecs_RoundTrip(t *testing.T) {
	owner := "konrad"
	in := todoState{Todos: []string{"milk", "eggs"}, Count: 2, Owner: &owner}

	for _, name := range []string{"json", "proto"} {
		t.Run(name, func(t *testing.T) {
			codec, err := checkpoint.CodecByName(name)
			if err != nil {
				t.Fatalf("CodecByName(%q) error = %v", name, err)
			}
			if codec.Name() != name {
				t.Errorf("Name() = %q, want %q", codec.Name(), name)
			}

			data, err := codec.Encode(in)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			var out todoState
			if err := codec.Decode(data, &out); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if len(out.Todos) != 2 || out.Todos[1] != "eggs" {
				t.Errorf("Todos = %v", out.Todos)
			}
			if out.Count != 2 {
				t.Errorf("Count = %d, want 2", out.Count)
			}
			if out.Owner == nil || *out.Owner != "konrad" {
				t.Errorf("Owner = %v", out.Owner)
			}
		})
	}
}

func TestCodecByName_Unknown(t *testing.T) {
	_, err := checkpoint.CodecByName("xml")
	if !errors.Is(err, checkpoint.ErrUnknownCodec) {
		t.Errorf("error = %v, want ErrUnknownCodec", err)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := checkpoint.DefaultConfig()
	cfg.Merge(&checkpoint.Config{Store: "file", Path: "/tmp/x", Interval: 5})

	if cfg.Store != "file" || cfg.Path != "/tmp/x" || cfg.Interval != 5 {
		t.Errorf("Merge() = %+v", cfg)
	}
	if cfg.Codec != "json" {
		t.Errorf("Codec = %q, want default json kept", cfg.Codec)
	}
	if !cfg.Enabled() {
		t.Error("Enabled() = false, want true")
	}

	cfg.Merge(&checkpoint.Config{})
	if cfg.Store != "file" || cfg.Interval != 5 {
		t.Errorf("empty Merge() overwrote values: %+v", cfg)
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     checkpoint.Config
		wantNil bool
		wantErr bool
	}{
		{name: "disabled", cfg: checkpoint.Config{Store: "none"}, wantNil: true},
		{name: "empty", cfg: checkpoint.Config{}, wantNil: true},
		{name: "memory", cfg: checkpoint.Config{Store: "memory"}},
		{name: "memory cached", cfg: checkpoint.Config{Store: "memory", CacheSize: 4}},
		{name: "file", cfg: checkpoint.Config{Store: "file", Path: t.TempDir()}},
		{name: "file without path", cfg: checkpoint.Config{Store: "file"}, wantErr: true},
		{name: "pebble without path", cfg: checkpoint.Config{Store: "pebble"}, wantErr: true},
		{name: "unknown", cfg: checkpoint.Config{Store: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := checkpoint.NewStore(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (store == nil) != tt.wantNil {
				t.Errorf("NewStore() store = %v, wantNil %v", store, tt.wantNil)
			}
		})
	}
}

func TestNewStore_Pebble(t *testing.T) {
	store, err := checkpoint.NewStore(&checkpoint.Config{Store: "pebble", Path: t.TempDir(), CacheSize: 8})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	cached, ok := store.(*checkpoint.CachedStore)
	if !ok {
		t.Fatalf("store = %T, want *CachedStore", store)
	}
	defer cached.Close()

	if err := store.Save(context.Background(), testSnapshot("a", 1)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestRegistry(t *testing.T) {
	custom := checkpoint.NewMemoryStore()
	if err := checkpoint.Register("custom-test", custom); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	store, err := checkpoint.NewStore(&checkpoint.Config{Store: "custom-test"})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != custom {
		t.Error("NewStore() did not resolve registered store")
	}

	if err := checkpoint.Register("memory", custom); err == nil {
		t.Error("Register() accepted reserved name")
	}

	_, err = checkpoint.Get("absent")
	if !errors.Is(err, checkpoint.ErrUnknownStore) {
		t.Errorf("Get() error = %v, want ErrUnknownStore", err)
	}
}
