// Package access implements the administrator gate: a two-state machine
// (guest, administrator) toggled by a shared PIN.
//
// The gate controls which mutations the UI offers and which the service
// layer accepts for a session. It is a usability control for a trusted
// group, not a security boundary: the PIN is a single shared secret and
// the store itself enforces nothing.
package access

import (
	"crypto/subtle"
	"sync"

	"github.com/dralexander0805/avg/internal/domain"
)

// Role is the authority level a session currently holds.
type Role int

const (
	// Guest sessions can view the roster and toggle their own signups.
	Guest Role = iota
	// Administrator sessions can additionally create, edit, and delete flights.
	Administrator
)

// String returns the lowercase role name used in logs and API responses.
func (r Role) String() string {
	if r == Administrator {
		return "administrator"
	}
	return "guest"
}

// Gate holds the administrator state for one session. Every session starts
// as Guest; nothing is persisted, so a fresh sign-in always starts over.
type Gate struct {
	pin string

	mu   sync.Mutex
	role Role
}

// NewGate constructs a Gate in the Guest state with the given shared secret.
func NewGate(pin string) *Gate {
	return &Gate{pin: pin}
}

// Login transitions to Administrator iff the submitted PIN exactly equals
// the shared secret. A wrong PIN returns domain.ErrWrongPIN and leaves the
// gate in Guest; each attempt is independent (no lockout, no counter).
func (g *Gate) Login(pin string) error {
	if subtle.ConstantTimeCompare([]byte(pin), []byte(g.pin)) != 1 {
		return domain.ErrWrongPIN
	}
	g.mu.Lock()
	g.role = Administrator
	g.mu.Unlock()
	return nil
}

// Logout returns the gate to Guest. Safe to call in any state.
func (g *Gate) Logout() {
	g.mu.Lock()
	g.role = Guest
	g.mu.Unlock()
}

// Role returns the current authority level.
func (g *Gate) Role() Role {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.role
}

// IsAdmin reports whether the gate currently grants administrator authority.
func (g *Gate) IsAdmin() bool {
	return g.Role() == Administrator
}
