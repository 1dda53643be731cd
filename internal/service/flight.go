// Package service contains the business logic for the roster board.
// Services check the session's authority, validate inputs, and orchestrate
// repo calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
//
// Authority checks are local fail-fast checks on the session's gate, made
// before any store call. The store itself enforces nothing; see the access
// package for what the gate does and does not promise.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dralexander0805/avg/internal/domain"
	"github.com/dralexander0805/avg/internal/identity"
	"github.com/dralexander0805/avg/internal/repo"
)

// Confirmer answers the confirmation prompt for destructive operations.
// The HTTP layer implements it from the request; tests implement it inline.
type Confirmer interface {
	// Confirm presents the prompt and reports whether the user answered
	// affirmatively.
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a plain function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// FlightService coordinates all mutations of the flight roster.
type FlightService struct {
	flights repo.FlightRepo
}

// NewFlightService constructs a FlightService backed by the provided FlightRepo.
func NewFlightService(flights repo.FlightRepo) *FlightService {
	return &FlightService{flights: flights}
}

// Create validates and inserts a new flight with an empty signup list.
// Administrator only.
func (s *FlightService) Create(ctx context.Context, sess *identity.Session, input domain.FlightInput) (domain.Flight, error) {
	if err := requireAdmin(sess); err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.Create: %w", err)
	}
	if err := validateInput(input); err != nil {
		return domain.Flight{}, err
	}

	flight := domain.Flight{
		FlightNumber:  input.FlightNumber,
		Departure:     input.Departure,
		Arrival:       input.Arrival,
		DepartureTime: input.DepartureTime,
		SignedUpUsers: []string{},
	}
	result, err := s.flights.Create(ctx, flight)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.Create: %w", err)
	}
	return result, nil
}

// Update validates and overwrites the four flight fields of an existing
// record. The signup list is never part of the update, so signups that
// arrived while the administrator was editing survive. Administrator only.
func (s *FlightService) Update(ctx context.Context, sess *identity.Session, id uuid.UUID, input domain.FlightInput) (domain.Flight, error) {
	if err := requireAdmin(sess); err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.Update: %w", err)
	}
	if err := validateInput(input); err != nil {
		return domain.Flight{}, err
	}

	result, err := s.flights.UpdateFields(ctx, id, input)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a flight after confirmation. Administrator only.
//
// Two-phase: the confirmer is asked first, and a negative answer is a clean
// no-op — the store is never called. A confirmed delete is unconditional;
// existing signups do not block it. Returns true if the flight was deleted.
func (s *FlightService) Delete(ctx context.Context, sess *identity.Session, id uuid.UUID, confirm Confirmer) (bool, error) {
	if err := requireAdmin(sess); err != nil {
		return false, fmt.Errorf("service.FlightService.Delete: %w", err)
	}

	if !confirm.Confirm(ctx, "Delete this flight? Signed-up volunteers will lose their slot.") {
		return false, nil
	}

	if err := s.flights.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("service.FlightService.Delete: %w", err)
	}
	return true, nil
}

// ToggleSignup flips the calling participant's membership on a flight's
// signup list: present → removed, absent → appended at the end.
//
// The computation runs over the caller-held snapshot of the list, and the
// full sequence is written back. Two participants toggling against the same
// stale snapshot race, and the last write wins. Accepted for a roster this
// size rather than moving set arithmetic into the store.
func (s *FlightService) ToggleSignup(ctx context.Context, sess *identity.Session, id uuid.UUID, current []string) (domain.Flight, error) {
	next := toggleMembership(current, sess.ParticipantID)

	result, err := s.flights.SetSignups(ctx, id, next)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("service.FlightService.ToggleSignup: %w", err)
	}
	return result, nil
}

// toggleMembership returns the signup sequence with participantID removed if
// present, appended if absent. The result is always duplicate-free and never
// contains the empty string, whatever the input looked like — toggling twice
// from the same snapshot restores the original membership.
func toggleMembership(current []string, participantID string) []string {
	next := make([]string, 0, len(current)+1)
	seen := make(map[string]bool)
	found := false
	for _, id := range current {
		if id == "" || seen[id] {
			continue
		}
		if id == participantID {
			found = true
			continue
		}
		seen[id] = true
		next = append(next, id)
	}
	if !found && participantID != "" {
		next = append(next, participantID)
	}
	return next
}

// requireAdmin fails fast with domain.ErrForbidden unless the session's gate
// grants administrator authority.
func requireAdmin(sess *identity.Session) error {
	if sess == nil || sess.Gate == nil || !sess.Gate.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// validateInput enforces the only rule flight fields have: all four are
// required and whitespace-only counts as empty. No format validation beyond
// that — flight numbers, airports, and times are free text.
func validateInput(input domain.FlightInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"flight_number", input.FlightNumber},
		{"departure", input.Departure},
		{"arrival", input.Arrival},
		{"departure_time", input.DepartureTime},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}
	return nil
}
