// Package domain contains the core data types for the flight roster board.
// This package has zero external dependencies beyond the uuid type and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Flight is one roster entry: a flight and the participants who have
// volunteered for it. Flights are the only top-level aggregate.
type Flight struct {
	ID            uuid.UUID `json:"id"`
	FlightNumber  string    `json:"flight_number"`
	Departure     string    `json:"departure"`
	Arrival       string    `json:"arrival"`
	DepartureTime string    `json:"departure_time"`

	// SignedUpUsers is the ordered list of participant IDs currently signed
	// up, in signup order. Application code keeps it duplicate-free and never
	// stores the empty string. This is the only field a non-administrator
	// may change.
	SignedUpUsers []string `json:"signed_up_users"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FlightInput carries the administrator-editable fields of a flight.
// SignedUpUsers is deliberately absent: edits never touch signups.
type FlightInput struct {
	FlightNumber  string `json:"flight_number"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	DepartureTime string `json:"departure_time"`
}

// IsSignedUp reports whether participantID is present in SignedUpUsers.
func (f Flight) IsSignedUp(participantID string) bool {
	for _, id := range f.SignedUpUsers {
		if id == participantID {
			return true
		}
	}
	return false
}
