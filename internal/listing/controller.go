// Package listing holds the generic controller behind every list command: it
// owns the cached collection, runs remote mutations and reloads afterwards.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/core/events"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrNothingToRetry = errors.New("listing: retry is only possible after a failed load")
	ErrNoConfirmer    = errors.New("listing: delete requires a confirmer")
)

// Fetcher returns the full collection from the remote service.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt. Used for --yes.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) {
	return true, nil
})

// Controller caches one remote collection. It is safe for concurrent use.
//
// Every Load is tagged with an increasing sequence number and a response is
// only applied when no newer load has been applied before it.
type Controller[T any] struct {
	resource string
	fetch    Fetcher[T]
	bus      *events.EventBus
	logger   *slog.Logger

	mu      sync.Mutex
	state   State
	items   []T
	err     error
	issued  uint64
	applied uint64
}

func NewController[T any](resource string, fetch Fetcher[T], bus *events.EventBus, logger *slog.Logger) *Controller[T] {
	return &Controller[T]{
		resource: resource,
		fetch:    fetch,
		bus:      bus,
		logger:   logger.With("resource", resource),
	}
}

func (c *Controller[T]) Resource() string {
	return c.resource
}

// Load fetches the whole collection and replaces the cache.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.state = StateLoading
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	if seq < c.applied {
		c.mu.Unlock()
		c.logger.Debug("discarding stale load response", "sequence", seq, "applied", c.applied)
		return nil
	}
	c.applied = seq
	latest := seq == c.issued

	if err != nil {
		c.err = err
		if latest {
			c.state = StateFailed
		}
		c.mu.Unlock()

		c.logger.Error("failed to load collection", "sequence", seq, "error", err)
		c.publishNow(ctx, events.NewLoadFailedEvent(c.resource, err.Error()))
		return err
	}

	c.items = items
	c.err = nil
	if latest {
		c.state = StateLoaded
	}
	c.mu.Unlock()

	c.logger.Debug("collection loaded", "sequence", seq, "count", len(items))
	c.publish(ctx, events.NewCollectionReloadedEvent(c.resource, len(items), seq))
	return nil
}

// Retry re-issues the fetch after a failed load.
func (c *Controller[T]) Retry(ctx context.Context) error {
	if c.State() != StateFailed {
		return ErrNothingToRetry
	}
	return c.Load(ctx)
}

// Mutate runs op against the remote service. On success the collection is
// always reloaded; on failure the cache is left as it was.
func (c *Controller[T]) Mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		c.logger.Warn("mutation failed", "operation", op, "error", err)
		c.publishNow(ctx, events.NewMutationFailedEvent(c.resource, op, err.Error()))
		return err
	}

	c.publish(ctx, events.NewMutationAppliedEvent(c.resource, op))

	if err := c.Load(ctx); err != nil {
		return fmt.Errorf("reload after %s: %w", op, err)
	}
	return nil
}

// Delete asks confirm first and only then runs fn through Mutate.
func (c *Controller[T]) Delete(ctx context.Context, confirm Confirmer, prompt string, fn func(ctx context.Context) error) error {
	if confirm == nil {
		return ErrNoConfirmer
	}
	ok, err := confirm.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirm %s delete: %w", c.resource, err)
	}
	if !ok {
		return internal.ErrNotConfirmed
	}
	return c.Mutate(ctx, "delete", fn)
}

// Items returns a copy of the cached collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err is the error of the last applied load, nil after a successful one.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller[T]) publish(ctx context.Context, e events.Event) {
	if err := c.bus.Publish(ctx, e); err != nil {
		c.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

// publishNow runs the subscribers before returning, so failure reports reach
// the log ahead of any retry prompt.
func (c *Controller[T]) publishNow(ctx context.Context, e events.Event) {
	if err := c.bus.PublishSync(ctx, e); err != nil {
		c.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}
