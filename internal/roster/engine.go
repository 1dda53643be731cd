// Package roster materializes the live flight collection into a local,
// always-sorted view and fans change notifications out to observers.
package roster

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dralexander0805/avg/internal/domain"
)

// Source is a full-snapshot change feed over the flight collection.
// repo.FlightWatcher is the production implementation; tests substitute a
// fake that pushes snapshots directly.
type Source interface {
	// Watch delivers the full current collection to onSnapshot, once
	// immediately and then once per change, blocking until ctx is
	// cancelled (returns nil) or the feed dies (returns the error).
	Watch(ctx context.Context, onSnapshot func([]domain.Flight)) error
}

// NameResolver is notified of every participant ID the roster references so
// display names are cached before the view is rendered.
type NameResolver interface {
	Resolve(ctx context.Context, ids []string)
}

// Engine keeps the local materialized view of the roster.
//
// Every snapshot from the source is treated as the new ground truth: the
// view is rebuilt and re-sorted in full, never patched incrementally. For a
// roster of this size the O(n) rework per update is cheaper than tracking
// inserts and deletes individually.
type Engine struct {
	resolver NameResolver
	log      *slog.Logger

	mu      sync.RWMutex
	view    []domain.Flight
	lastErr error

	obsMu     sync.Mutex
	observers map[int]chan struct{}
	nextObs   int
}

// NewEngine constructs an Engine with an empty view.
func NewEngine(resolver NameResolver, log *slog.Logger) *Engine {
	return &Engine{
		resolver:  resolver,
		log:       log,
		observers: make(map[int]chan struct{}),
	}
}

// Run subscribes to the source and applies snapshots until ctx is cancelled.
// This is the single subscription for the process; cancel ctx exactly once
// to tear it down.
//
// If the feed dies, the failure is recorded and published to observers, the
// view stays at its last known-good state, and Run returns without retrying.
// Reconnect policy belongs to the caller.
func (e *Engine) Run(ctx context.Context, source Source) error {
	err := source.Watch(ctx, func(flights []domain.Flight) {
		e.apply(ctx, flights)
	})
	if err != nil {
		e.log.Error("failed to load roster", "error", err)
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		e.notify()
	}
	return err
}

// apply installs a snapshot as the new view: sort by flight number
// ascending (plain lexicographic string order), swap in atomically, wake
// observers, then warm the name cache for every signed-up participant.
// Applying the same snapshot twice yields the same view.
func (e *Engine) apply(ctx context.Context, flights []domain.Flight) {
	view := make([]domain.Flight, len(flights))
	copy(view, flights)
	slices.SortStableFunc(view, func(a, b domain.Flight) int {
		return strings.Compare(a.FlightNumber, b.FlightNumber)
	})

	e.mu.Lock()
	e.view = view
	e.lastErr = nil
	e.mu.Unlock()

	e.notify()

	// The resolver merges the whole batch before returning; the second
	// signal is the cache publication, so observers re-render once the new
	// names are available.
	e.resolver.Resolve(ctx, participantIDs(view))
	e.notify()
}

// View returns a copy of the current materialized view, sorted by flight
// number ascending.
func (e *Engine) View() []domain.Flight {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Flight, len(e.view))
	copy(out, e.view)
	return out
}

// Err returns the feed error recorded by Run, or nil while the feed is
// healthy. The view itself is still valid — it is the last known-good state.
func (e *Engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastErr
}

// Subscribe registers an observer. The returned channel receives a (possibly
// coalesced) signal after every view change; the returned func unregisters
// the observer and must be called to avoid leaking it.
func (e *Engine) Subscribe() (<-chan struct{}, func()) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()

	id := e.nextObs
	e.nextObs++
	ch := make(chan struct{}, 1)
	e.observers[id] = ch

	return ch, func() {
		e.obsMu.Lock()
		delete(e.observers, id)
		e.obsMu.Unlock()
	}
}

// notify signals every observer without blocking; a signal already pending
// on an observer's channel covers this change too.
func (e *Engine) notify() {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()

	for _, ch := range e.observers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// participantIDs collects every participant ID referenced by any flight's
// signup list, deduplicated, in first-seen order.
func participantIDs(flights []domain.Flight) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, f := range flights {
		for _, id := range f.SignedUpUsers {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
