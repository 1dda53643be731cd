package identity_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dralexander0805/avg/internal/domain"
	"github.com/dralexander0805/avg/internal/identity"
	"github.com/dralexander0805/avg/internal/repo"
)

// mockProfileRepo is a hand-written test double for repo.ProfileRepo.
// It records every Get call so tests can assert the resolver's caching
// behavior, and is safe for the resolver's concurrent batch fetches.
type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	failing  map[string]bool
	getCalls map[string]int
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		profiles: make(map[string]domain.Profile),
		failing:  make(map[string]bool),
		getCalls: make(map[string]int),
	}
}

func (m *mockProfileRepo) Get(_ context.Context, participantID string) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls[participantID]++
	if m.failing[participantID] {
		return domain.Profile{}, errors.New("transport failure")
	}
	if p, ok := m.profiles[participantID]; ok {
		return p, nil
	}
	return domain.Profile{}, domain.ErrNotFound
}

func (m *mockProfileRepo) Set(_ context.Context, profile domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profile.ParticipantID] = profile
	return nil
}

func (m *mockProfileRepo) calls(participantID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls[participantID]
}

// compile-time check: mockProfileRepo must satisfy repo.ProfileRepo.
var _ repo.ProfileRepo = (*mockProfileRepo)(nil)

func newResolver(profiles repo.ProfileRepo) *identity.Resolver {
	return identity.NewResolver(profiles, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolver_Resolve_StoredProfile(t *testing.T) {
	profiles := newMockProfileRepo()
	require.NoError(t, profiles.Set(context.Background(), domain.Profile{
		ParticipantID: "01J9XW3B4N8Q2R5T7V9XAZCDEF",
		DisplayName:   "Maverick",
	}))
	r := newResolver(profiles)

	r.Resolve(context.Background(), []string{"01J9XW3B4N8Q2R5T7V9XAZCDEF"})

	assert.Equal(t, "Maverick", r.DisplayName("01J9XW3B4N8Q2R5T7V9XAZCDEF"))
}

// TestResolver_Resolve_MissingProfileFallsBack verifies the deterministic
// fallback: a participant who never saved a name shows as the first 8
// characters of their ID, and that fallback is cached like any other name.
func TestResolver_Resolve_MissingProfileFallsBack(t *testing.T) {
	profiles := newMockProfileRepo()
	r := newResolver(profiles)

	r.Resolve(context.Background(), []string{"01J9XW3B4N8Q2R5T7V9XAZCDEF"})

	assert.Equal(t, "01J9XW3B", r.DisplayName("01J9XW3B4N8Q2R5T7V9XAZCDEF"))

	// Cached: a second resolve must not hit the store again.
	r.Resolve(context.Background(), []string{"01J9XW3B4N8Q2R5T7V9XAZCDEF"})
	assert.Equal(t, 1, profiles.calls("01J9XW3B4N8Q2R5T7V9XAZCDEF"))
}

// TestResolver_Resolve_NeverRefetchesCachedIDs is the core idempotence
// property: once an ID is in the cache, no further store fetch is ever
// issued for it, even when it keeps appearing in later batches.
func TestResolver_Resolve_NeverRefetchesCachedIDs(t *testing.T) {
	profiles := newMockProfileRepo()
	require.NoError(t, profiles.Set(context.Background(), domain.Profile{ParticipantID: "u1-participant", DisplayName: "Goose"}))
	r := newResolver(profiles)

	r.Resolve(context.Background(), []string{"u1-participant"})
	r.Resolve(context.Background(), []string{"u1-participant", "u2-participant"})
	r.Resolve(context.Background(), []string{"u2-participant", "u1-participant"})

	assert.Equal(t, 1, profiles.calls("u1-participant"))
	assert.Equal(t, 1, profiles.calls("u2-participant"))
}

// TestResolver_Resolve_RenameNotReflected pins the accepted staleness: a
// participant who renames themselves after being cached keeps their old
// name in this resolver for the life of the process.
func TestResolver_Resolve_RenameNotReflected(t *testing.T) {
	profiles := newMockProfileRepo()
	require.NoError(t, profiles.Set(context.Background(), domain.Profile{ParticipantID: "u1-participant", DisplayName: "Goose"}))
	r := newResolver(profiles)

	r.Resolve(context.Background(), []string{"u1-participant"})
	require.NoError(t, profiles.Set(context.Background(), domain.Profile{ParticipantID: "u1-participant", DisplayName: "Iceman"}))
	r.Resolve(context.Background(), []string{"u1-participant"})

	assert.Equal(t, "Goose", r.DisplayName("u1-participant"))
}

// TestResolver_Resolve_FailedLookup verifies that a failed fetch does not
// poison the batch or the cache: other IDs resolve normally, the failed ID
// falls back to the truncated form at render time, and a later batch
// retries the fetch.
func TestResolver_Resolve_FailedLookup(t *testing.T) {
	profiles := newMockProfileRepo()
	require.NoError(t, profiles.Set(context.Background(), domain.Profile{ParticipantID: "u1-participant", DisplayName: "Goose"}))
	profiles.failing["u2-participant"] = true
	r := newResolver(profiles)

	r.Resolve(context.Background(), []string{"u1-participant", "u2-participant"})

	assert.Equal(t, "Goose", r.DisplayName("u1-participant"))
	assert.Equal(t, "u2-parti", r.DisplayName("u2-participant"), "failed lookup renders the truncated ID")
	_, cached := r.Names()["u2-participant"]
	assert.False(t, cached, "failed lookup must not be cached")

	// The store recovers; the next batch resolves the ID for real.
	profiles.failing["u2-participant"] = false
	require.NoError(t, profiles.Set(context.Background(), domain.Profile{ParticipantID: "u2-participant", DisplayName: "Viper"}))
	r.Resolve(context.Background(), []string{"u2-participant"})

	assert.Equal(t, "Viper", r.DisplayName("u2-participant"))
	assert.Equal(t, 2, profiles.calls("u2-participant"))
}

// TestResolver_Resolve_DeduplicatesBatch verifies that duplicate and empty
// IDs in one batch collapse to a single fetch.
func TestResolver_Resolve_DeduplicatesBatch(t *testing.T) {
	profiles := newMockProfileRepo()
	r := newResolver(profiles)

	r.Resolve(context.Background(), []string{"u1-participant", "", "u1-participant", "u1-participant"})

	assert.Equal(t, 1, profiles.calls("u1-participant"))
	assert.Equal(t, 0, profiles.calls(""))
}

func TestResolver_Names_ReturnsCopy(t *testing.T) {
	profiles := newMockProfileRepo()
	r := newResolver(profiles)
	r.Resolve(context.Background(), []string{"u1-participant"})

	names := r.Names()
	names["u1-participant"] = "tampered"

	assert.Equal(t, "u1-parti", r.DisplayName("u1-participant"))
}
