package client

import (
	"context"
	"sync"
)

// Source produces the entities for a view given the current query state.
type Source[T any] interface {
	Fetch(ctx context.Context, state QueryState) ([]T, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func(ctx context.Context, state QueryState) ([]T, error)

func (f SourceFunc[T]) Fetch(ctx context.Context, state QueryState) ([]T, error) {
	return f(ctx, state)
}

// Controller owns a view's displayed list. Every Load is tagged with a
// monotonically increasing sequence number; a response whose sequence is
// no longer the latest issued is discarded, so the displayed list always
// reflects the most recently issued load. Nobody else may overwrite the
// list.
type Controller[T any] struct {
	source Source[T]

	mu      sync.Mutex
	seq     uint64
	items   []T
	err     error
	loading bool
}

func NewController[T any](source Source[T]) *Controller[T] {
	return &Controller[T]{source: source}
}

// Load fetches the collection for the given query state. It blocks until
// its own request settles; whether the result is applied depends on
// whether a newer Load superseded it in the meantime. On failure the
// list is cleared and the error exposed. The loading flag always settles
// with the latest issued request, success or failure.
func (c *Controller[T]) Load(ctx context.Context, state QueryState) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	items, err := c.source.Fetch(ctx, state)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// superseded: a newer load owns the view now
		return
	}
	c.loading = false
	if err != nil {
		c.items = nil
		c.err = err
		return
	}
	c.items = items
	c.err = nil
}

// Items returns the currently displayed list.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// Err returns the error of the latest settled load, nil after success.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loading reports whether the latest issued load is still in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
