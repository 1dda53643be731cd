// Package handler implements the HTTP and websocket surface of the roster
// board. Handlers decode requests, resolve the caller's session, call the
// service layer, and map sentinel errors to HTTP statuses. Methods are split
// into files by concern (session.go, flight.go, profile.go, ws.go) but all
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dralexander0805/avg/internal/domain"
	"github.com/dralexander0805/avg/internal/identity"
	"github.com/dralexander0805/avg/internal/service"
)

// FlightServicer defines the roster mutations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type FlightServicer interface {
	Create(ctx context.Context, sess *identity.Session, input domain.FlightInput) (domain.Flight, error)
	Update(ctx context.Context, sess *identity.Session, id uuid.UUID, input domain.FlightInput) (domain.Flight, error)
	Delete(ctx context.Context, sess *identity.Session, id uuid.UUID, confirm service.Confirmer) (bool, error)
	ToggleSignup(ctx context.Context, sess *identity.Session, id uuid.UUID, current []string) (domain.Flight, error)
}

// ProfileServicer defines the profile operation the handlers depend on.
type ProfileServicer interface {
	SaveDisplayName(ctx context.Context, sess *identity.Session, name string) error
}

// RosterViewer is the read side of the materialized roster view.
// roster.Engine is the production implementation.
type RosterViewer interface {
	// View returns the current view, sorted by flight number ascending.
	View() []domain.Flight
	// Err returns the change-feed error, or nil while the feed is healthy.
	Err() error
	// Subscribe registers a change observer; the func unregisters it.
	Subscribe() (<-chan struct{}, func())
}

// NameCache is the read side of the identity cache.
// identity.Resolver is the production implementation.
type NameCache interface {
	Names() map[string]string
}

// Sessions issues and resolves participant sessions.
// identity.Provider is the production implementation.
type Sessions interface {
	SignIn(existingParticipantID string) *identity.Session
	Lookup(sessionID string) (*identity.Session, error)
	SignOut(sessionID string)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	flights  FlightServicer
	profiles ProfileServicer
	view     RosterViewer
	names    NameCache
	sessions Sessions
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(flights FlightServicer, profiles ProfileServicer, view RosterViewer, names NameCache, sessions Sessions, log *slog.Logger) *Server {
	return &Server{
		flights:  flights,
		profiles: profiles,
		view:     view,
		names:    names,
		sessions: sessions,
		log:      log,
	}
}

// Routes returns the full route tree for mounting on the root router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.SignIn)
		r.Delete("/session", s.SignOut)

		r.Post("/admin/login", s.AdminLogin)
		r.Post("/admin/logout", s.AdminLogout)

		r.Get("/flights", s.ListFlights)
		r.Post("/flights", s.CreateFlight)
		r.Put("/flights/{id}", s.UpdateFlight)
		r.Delete("/flights/{id}", s.DeleteFlight)
		r.Post("/flights/{id}/signup", s.ToggleSignup)

		r.Put("/profile", s.SaveProfile)

		r.Get("/ws", s.ServeWS)
	})

	return r
}

// session resolves the caller's session from the Authorization header
// ("Bearer <sessionID>"). Returns domain.ErrNoSession for a missing or
// unknown session.
func (s *Server) session(r *http.Request) (*identity.Session, error) {
	const prefix = "Bearer "

	auth := r.Header.Get("Authorization")
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		return nil, domain.ErrNoSession
	}
	return s.sessions.Lookup(auth[len(prefix):])
}

// flightID parses the {id} route parameter.
func flightID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
