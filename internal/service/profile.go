package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dralexander0805/avg/internal/domain"
	"github.com/dralexander0805/avg/internal/identity"
	"github.com/dralexander0805/avg/internal/repo"
)

// ProfileService implements the one profile operation a participant has:
// saving their own display name.
type ProfileService struct {
	profiles repo.ProfileRepo
}

// NewProfileService constructs a ProfileService backed by the provided ProfileRepo.
func NewProfileService(profiles repo.ProfileRepo) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// SaveDisplayName overwrites the calling participant's profile with the
// given name. Any participant may call this, but only for themselves — the
// target is always the session's own participant ID.
// An empty (or whitespace-only) name is rejected with domain.ErrValidation.
func (s *ProfileService) SaveDisplayName(ctx context.Context, sess *identity.Session, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: display name is required", domain.ErrValidation)
	}

	profile := domain.Profile{
		ParticipantID: sess.ParticipantID,
		DisplayName:   name,
	}
	if err := s.profiles.Set(ctx, profile); err != nil {
		return fmt.Errorf("service.ProfileService.SaveDisplayName: %w", err)
	}
	return nil
}
