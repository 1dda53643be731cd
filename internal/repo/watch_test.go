package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dralexander0805/avg/internal/domain"
	"github.com/dralexander0805/avg/internal/repo"
	"github.com/dralexander0805/avg/testutil"
)

// TestFlightWatcher_DeliversSnapshots is an integration test for the
// LISTEN/NOTIFY change feed. Notifications only fire on commit, so unlike
// the other repo tests this one writes through the pool and resets the
// table instead of rolling back a transaction.
func TestFlightWatcher_DeliversSnapshots(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()

	testutil.ResetFlights(t, pool)

	flights := repo.NewFlightRepo(pool)
	watcher := repo.NewFlightWatcher(pool, flights)

	snapshots := make(chan []domain.Flight, 16)
	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(watchCtx, func(s []domain.Flight) {
			snapshots <- s
		})
	}()

	next := func() []domain.Flight {
		t.Helper()
		select {
		case s := <-snapshots:
			return s
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for snapshot")
			return nil
		}
	}

	// Initial delivery: the current (empty) collection, before any change.
	assert.Empty(t, next())

	created, err := flights.Create(ctx, domain.Flight{
		FlightNumber:  "AA123",
		Departure:     "JFK",
		Arrival:       "LAX",
		DepartureTime: "08:00 AM",
		SignedUpUsers: []string{},
	})
	require.NoError(t, err)

	// The commit pings the channel; the snapshot is the full collection.
	snapshot := next()
	require.Len(t, snapshot, 1)
	assert.Equal(t, created.ID, snapshot[0].ID)

	require.NoError(t, flights.Delete(ctx, created.ID))
	assert.Empty(t, next())

	// Cancellation is the single teardown point and a clean return.
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
