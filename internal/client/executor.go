package client

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrExecuteInFlight is returned when an execute is already running for
// the same order.
var ErrExecuteInFlight = errors.New("order execution already in progress")

// executeSource is the one round trip the executor needs.
type executeSource interface {
	Execute(ctx context.Context, id int64) error
}

// OrderExecutor serializes execution per order: while an execute for an
// order is in flight, further attempts on that order are refused, while
// other orders remain executable. Success does not patch local state;
// the refresh callback re-fetches so the view shows what the server
// committed.
type OrderExecutor struct {
	source  executeSource
	refresh func(ctx context.Context)

	mu       sync.Mutex
	inflight map[int64]struct{}
	executed map[int64]bool
}

func NewOrderExecutor(source executeSource, refresh func(ctx context.Context)) *OrderExecutor {
	return &OrderExecutor{
		source:   source,
		refresh:  refresh,
		inflight: make(map[int64]struct{}),
		executed: make(map[int64]bool),
	}
}

// Observe records the known terminal states from a fetched list so
// Execute can refuse locally without a round trip.
func (e *OrderExecutor) Observe(orders []Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, o := range orders {
		if o.Executed {
			e.executed[o.ID] = true
		}
	}
}

// Busy reports whether an execute for the order is in flight.
func (e *OrderExecutor) Busy(id int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.inflight[id]
	return ok
}

// Execute runs the execute round trip for one order. Executed is a
// terminal state: a locally known executed order is refused before the
// request. A failed attempt leaves the order executable again.
func (e *OrderExecutor) Execute(ctx context.Context, id int64) error {
	e.mu.Lock()
	if e.executed[id] {
		e.mu.Unlock()
		return ErrOrderAlreadyExecuted
	}
	if _, busy := e.inflight[id]; busy {
		e.mu.Unlock()
		return ErrExecuteInFlight
	}
	e.inflight[id] = struct{}{}
	e.mu.Unlock()

	err := e.source.Execute(ctx, id)

	e.mu.Lock()
	delete(e.inflight, id)
	if err == nil || errors.Is(err, ErrOrderAlreadyExecuted) {
		e.executed[id] = true
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	if e.refresh != nil {
		e.refresh(ctx)
	}
	return nil
}
