package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dralexander0805/avg/internal/domain"
)

// flightChannel is the Postgres NOTIFY channel pinged by the flights trigger
// (see migrations/00001_create_flights.sql).
const flightChannel = "flight_changes"

// FlightWatcher turns the flights table into a change feed. Every time the
// table changes it delivers the full current collection, never a diff —
// consumers treat each delivery as the new ground truth.
type FlightWatcher struct {
	pool    *pgxpool.Pool
	flights FlightRepo
}

// NewFlightWatcher constructs a watcher over the given pool. It needs the
// pool itself (not the db interface) because LISTEN requires a dedicated
// connection held for the lifetime of the subscription.
func NewFlightWatcher(pool *pgxpool.Pool, flights FlightRepo) *FlightWatcher {
	return &FlightWatcher{pool: pool, flights: flights}
}

// Watch subscribes to flight changes and blocks until ctx is cancelled.
// onSnapshot is called once with the current collection before any
// notifications are processed, then once per change. Delivery order follows
// notification order on the single listening connection.
//
// Watch returns nil on cancellation. Any other return is a transport error;
// the subscription is dead and Watch does not retry — reconnect policy
// belongs to the caller.
func (w *FlightWatcher) Watch(ctx context.Context, onSnapshot func([]domain.Flight)) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("repo.FlightWatcher.Watch: acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+flightChannel); err != nil {
		return fmt.Errorf("repo.FlightWatcher.Watch: listen: %w", err)
	}

	if err := w.deliver(ctx, onSnapshot); err != nil {
		return err
	}

	for {
		// WaitForNotification returns with ctx.Err() on cancellation, which
		// is the single teardown point for the subscription.
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("repo.FlightWatcher.Watch: wait: %w", err)
		}
		if err := w.deliver(ctx, onSnapshot); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// deliver loads the full collection and hands it to the callback.
func (w *FlightWatcher) deliver(ctx context.Context, onSnapshot func([]domain.Flight)) error {
	flights, err := w.flights.List(ctx)
	if err != nil {
		return fmt.Errorf("repo.FlightWatcher.Watch: reload: %w", err)
	}
	onSnapshot(flights)
	return nil
}
