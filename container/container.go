// Package container hosts a single immutable state value.
//
// A Container serializes every read-reconcile-write cycle behind one mutex,
// treats a reference-identical result as "nothing happened", and notifies
// subscribers once per commit after the lock is released. It is the host the
// signals, componentstore and reducer packages build on.
//
// Example:
//
//	c := container.New(Todos{}, container.WithName("todos"))
//	cancel := c.Subscribe(func(s Todos) { fmt.Println(s.Items) })
//	defer cancel()
//
//	err := c.Update(func(s Todos) (Todos, error) {
//	    return draft.Produce(s, func(d *Todos) *Todos {
//	        d.Items = append(d.Items, "milk")
//	        return nil
//	    })
//	})
package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/drafts/checkpoint"
	"github.com/tailored-agentic-units/drafts/draft"
	"github.com/tailored-agentic-units/drafts/observability"
)

type listener[S any] struct {
	id int
	fn func(prev, next S)
}

// Container owns exactly one state value of type S.
type Container[S any] struct {
	id   string
	opts options

	mu        sync.Mutex
	state     S
	version   int64
	listeners []listener[S]
	nextID    int
}

// New creates a container holding initial. The initial value goes through
// draft.Produce with the identity recipe, so it is held exactly as given.
func New[S any](initial S, opts ...Option) *Container[S] {
	// the identity recipe cannot conflict
	state, _ := draft.Produce(initial, draft.Identity[S])

	c := &Container[S]{
		id:    uuid.Must(uuid.NewV7()).String(),
		opts:  buildOptions(opts),
		state: state,
	}

	c.emit(context.Background(), EventCreate, observability.LevelVerbose, map[string]any{
		"checkpoint_interval": c.opts.interval,
	})
	return c
}

// ID returns the container's unique identifier.
func (c *Container[S]) ID() string {
	return c.id
}

// Name returns the name set with WithName, or the empty string.
func (c *Container[S]) Name() string {
	return c.opts.name
}

// State returns the current state.
func (c *Container[S]) State() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Version counts commits since creation. No-op updates do not count.
func (c *Container[S]) Version() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Update runs fn against the current state under the container lock.
//
// If fn fails, nothing is committed and the error is returned unchanged. If
// fn returns a value that is reference-identical to its input (draft.Same),
// the update is a no-op: the version is not bumped and nobody is notified.
// Otherwise the result is committed and every subscriber is called once.
//
// A due periodic checkpoint runs after the commit. Its failure does not fail
// the update: the change is already applied, and the failure is reported as
// an error-level container.checkpoint event.
func (c *Container[S]) Update(fn func(S) (S, error)) error {
	return c.UpdateContext(context.Background(), fn)
}

// UpdateContext is Update with a context for event delivery and
// checkpoint writes.
func (c *Container[S]) UpdateContext(ctx context.Context, fn func(S) (S, error)) error {
	c.mu.Lock()
	prev := c.state
	next, err := fn(prev)
	if err != nil {
		c.mu.Unlock()
		if errors.Is(err, draft.ErrConflictingUpdate) {
			c.emit(ctx, EventConflict, observability.LevelWarning, map[string]any{
				"error": err.Error(),
			})
		}
		return err
	}

	if draft.Same(prev, next) {
		version := c.version
		c.mu.Unlock()
		c.emit(ctx, EventNoop, observability.LevelVerbose, map[string]any{
			"version": version,
		})
		return nil
	}

	version, listeners := c.commitLocked(next)
	c.mu.Unlock()

	c.emit(ctx, EventCommit, observability.LevelInfo, map[string]any{
		"version": version,
	})
	notify(listeners, prev, next)

	if c.checkpointDue(version) {
		_ = c.save(ctx, next, version)
	}
	return nil
}

// Set replaces the state directly, without a draft. Setting the current
// value again is a no-op.
func (c *Container[S]) Set(s S) {
	// fn never fails
	_ = c.Update(func(S) (S, error) {
		return s, nil
	})
}

// Subscribe registers fn to receive the state after every commit.
// Subscribers run after the container lock is released, in subscription
// order. The returned function removes the subscription.
func (c *Container[S]) Subscribe(fn func(S)) (cancel func()) {
	return c.SubscribeChange(func(_, next S) {
		fn(next)
	})
}

// SubscribeChange is Subscribe with access to the state before the commit.
func (c *Container[S]) SubscribeChange(fn func(prev, next S)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener[S]{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, l := range c.listeners {
				if l.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Checkpoint saves a snapshot of the current state immediately.
func (c *Container[S]) Checkpoint(ctx context.Context) error {
	if c.opts.store == nil {
		return ErrCheckpointDisabled
	}

	c.mu.Lock()
	state, version := c.state, c.version
	c.mu.Unlock()

	return c.save(ctx, state, version)
}

// Restore loads the snapshot saved under id from store and commits it. A nil
// store means the store given to WithCheckpoint. A snapshot equal to the
// current state commits nothing.
func (c *Container[S]) Restore(ctx context.Context, store checkpoint.Store, id string) error {
	if store == nil {
		store = c.opts.store
	}
	if store == nil {
		return ErrCheckpointDisabled
	}

	snap, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	codec, err := checkpoint.CodecByName(snap.Codec)
	if err != nil {
		return err
	}

	var restored S
	if err := codec.Decode(snap.Data, &restored); err != nil {
		return fmt.Errorf("%w: %s: %v", checkpoint.ErrLoadFailed, id, err)
	}

	c.emit(ctx, EventRestore, observability.LevelInfo, map[string]any{
		"snapshot_id":      snap.ID,
		"snapshot_version": snap.Version,
	})

	// reconciling against the current state keeps equal sub-trees, so
	// restoring an identical snapshot is a no-op
	return c.UpdateContext(ctx, func(prev S) (S, error) {
		return draft.Produce(prev, func(*S) *S { return &restored })
	})
}

// SnapshotID is the key snapshots of this container are saved under: its
// name when set, otherwise its ID.
func (c *Container[S]) SnapshotID() string {
	if c.opts.name != "" {
		return c.opts.name
	}
	return c.id
}

func (c *Container[S]) commitLocked(next S) (int64, []listener[S]) {
	c.state = next
	c.version++
	listeners := make([]listener[S], len(c.listeners))
	copy(listeners, c.listeners)
	return c.version, listeners
}

func notify[S any](listeners []listener[S], prev, next S) {
	for _, l := range listeners {
		l.fn(prev, next)
	}
}

func (c *Container[S]) checkpointDue(version int64) bool {
	return c.opts.store != nil && c.opts.interval > 0 && version%int64(c.opts.interval) == 0
}

func (c *Container[S]) save(ctx context.Context, state S, version int64) error {
	data, err := c.opts.codec.Encode(state)
	if err != nil {
		c.emitCheckpointError(ctx, version, err)
		return fmt.Errorf("%w: %s: %v", checkpoint.ErrSaveFailed, c.SnapshotID(), err)
	}

	snap := checkpoint.Snapshot{
		ID:        c.SnapshotID(),
		Name:      c.opts.name,
		Version:   version,
		Codec:     c.opts.codec.Name(),
		Timestamp: time.Now(),
		Data:      data,
	}
	if err := c.opts.store.Save(ctx, snap); err != nil {
		c.emitCheckpointError(ctx, version, err)
		return fmt.Errorf("%w: %s: %w", checkpoint.ErrSaveFailed, snap.ID, err)
	}

	c.emit(ctx, EventCheckpoint, observability.LevelInfo, map[string]any{
		"version":     version,
		"snapshot_id": snap.ID,
		"codec":       snap.Codec,
		"bytes":       len(data),
	})
	return nil
}

func (c *Container[S]) emitCheckpointError(ctx context.Context, version int64, err error) {
	c.emit(ctx, EventCheckpoint, observability.LevelError, map[string]any{
		"version": version,
		"error":   err.Error(),
	})
}

func (c *Container[S]) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	data["container_id"] = c.id
	if c.opts.name != "" {
		data["name"] = c.opts.name
	}

	source := c.opts.name
	if source == "" {
		source = "container"
	}
	observability.Emit(ctx, c.opts.observer, observability.NewEvent(typ, level, source, data))
}
