package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dralexander0805/avg/internal/domain"
)

// ProfileRepo defines the persistence operations for participant profiles.
// Profiles are keyed by the opaque participant ID and written wholesale —
// last write wins, no history.
type ProfileRepo interface {
	// Get retrieves the profile for a participant.
	// Returns domain.ErrNotFound if the participant never saved a name.
	Get(ctx context.Context, participantID string) (domain.Profile, error)

	// Set upserts the profile, overwriting any previous display name.
	Set(ctx context.Context, profile domain.Profile) error
}

// pgProfileRepo is the Postgres implementation of ProfileRepo.
type pgProfileRepo struct {
	db db
}

// NewProfileRepo constructs a ProfileRepo backed by the provided db connection.
func NewProfileRepo(db db) ProfileRepo {
	return &pgProfileRepo{db: db}
}

// Get retrieves a profile by participant ID.
func (r *pgProfileRepo) Get(ctx context.Context, participantID string) (domain.Profile, error) {
	const q = `
		SELECT participant_id, display_name
		FROM profiles
		WHERE participant_id = @participant_id`

	var p domain.Profile
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"participant_id": participantID})
	if err := row.Scan(&p.ParticipantID, &p.DisplayName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.Get: %w", domain.ErrNotFound)
		}
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.Get: %w", err)
	}
	return p, nil
}

// Set upserts a profile row.
func (r *pgProfileRepo) Set(ctx context.Context, profile domain.Profile) error {
	const q = `
		INSERT INTO profiles (participant_id, display_name)
		VALUES (@participant_id, @display_name)
		ON CONFLICT (participant_id)
		DO UPDATE SET display_name = EXCLUDED.display_name, updated_at = now()`

	args := pgx.NamedArgs{
		"participant_id": profile.ParticipantID,
		"display_name":   profile.DisplayName,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.ProfileRepo.Set: %w", err)
	}
	return nil
}
