package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dralexander0805/avg/internal/domain"
	"github.com/dralexander0805/avg/internal/repo"
)

// Resolver maintains the cache mapping participant IDs to display names.
//
// The cache only grows: once an ID resolves, the name is kept for the life
// of the process and never re-fetched, so a participant's rename is not
// visible to peers until they reconnect. That staleness window is accepted;
// live name propagation would need a profile change subscription.
type Resolver struct {
	profiles repo.ProfileRepo
	log      *slog.Logger

	mu    sync.Mutex
	names map[string]string
}

// NewResolver constructs a Resolver with an empty cache.
func NewResolver(profiles repo.ProfileRepo, log *slog.Logger) *Resolver {
	return &Resolver{
		profiles: profiles,
		log:      log,
		names:    make(map[string]string),
	}
}

// Resolve fills the cache for every ID in ids not already present.
//
// All profile fetches for the batch run concurrently, and the merge into the
// cache happens once, after every fetch has finished — observers never see a
// half-resolved batch. A participant with no stored profile resolves to the
// truncated-ID fallback. A fetch that fails outright is logged and left out
// of the cache; rendering falls back to the truncated ID until a later batch
// resolves it.
func (r *Resolver) Resolve(ctx context.Context, ids []string) {
	pending := r.uncached(ids)
	if len(pending) == 0 {
		return
	}

	type result struct {
		id   string
		name string
		ok   bool
	}
	results := make([]result, len(pending))

	var wg sync.WaitGroup
	for i, id := range pending {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			profile, err := r.profiles.Get(ctx, id)
			switch {
			case err == nil:
				results[i] = result{id: id, name: profile.DisplayName, ok: true}
			case errors.Is(err, domain.ErrNotFound):
				results[i] = result{id: id, name: domain.FallbackName(id), ok: true}
			default:
				r.log.Warn("profile lookup failed", "participant_id", id, "error", err)
			}
		}(i, id)
	}
	wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range results {
		if !res.ok {
			continue
		}
		// First resolution wins; the cache is merge-only.
		if _, exists := r.names[res.id]; !exists {
			r.names[res.id] = res.name
		}
	}
}

// uncached returns the subset of ids with no cache entry, deduplicated,
// preserving first-seen order.
func (r *Resolver) uncached(ids []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := r.names[id]; !ok {
			pending = append(pending, id)
		}
	}
	return pending
}

// DisplayName returns the cached name for id, or the truncated-ID fallback
// when the cache has no entry (unresolved or failed lookup).
func (r *Resolver) DisplayName(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.names[id]; ok {
		return name
	}
	return domain.FallbackName(id)
}

// Names returns a copy of the current cache.
func (r *Resolver) Names() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]string, len(r.names))
	for id, name := range r.names {
		out[id] = name
	}
	return out
}
