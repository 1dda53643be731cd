package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dralexander0805/avg/internal/domain"
	"github.com/dralexander0805/avg/internal/service"
)

// rosterResponse is the full client-facing state: the sorted view, the name
// cache for rendering signups, and the feed error when the view is stale.
type rosterResponse struct {
	Flights []domain.Flight   `json:"flights"`
	Names   map[string]string `json:"names"`
	Error   string            `json:"error,omitempty"`
}

// currentRoster assembles a rosterResponse from the live view and cache.
func (s *Server) currentRoster() rosterResponse {
	resp := rosterResponse{
		Flights: s.view.View(),
		Names:   s.names.Names(),
	}
	if err := s.view.Err(); err != nil {
		resp.Error = "failed to load roster"
	}
	return resp
}

// ListFlights handles GET /api/flights.
// Any signed-in participant may read the roster.
func (s *Server) ListFlights(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session(r); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.currentRoster())
}

// CreateFlight handles POST /api/flights. Administrator only.
// The realtime feed delivers the new state to all clients, including this
// one, so the response body is just the created record.
func (s *Server) CreateFlight(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var input domain.FlightInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.requestError(w, "malformed request body")
		return
	}

	created, err := s.flights.Create(r.Context(), sess, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// UpdateFlight handles PUT /api/flights/{id}. Administrator only.
// Only the four flight fields are replaced; the signup list is untouched.
func (s *Server) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id, err := flightID(r)
	if err != nil {
		s.requestError(w, "malformed flight id")
		return
	}

	var input domain.FlightInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.requestError(w, "malformed request body")
		return
	}

	updated, err := s.flights.Update(r.Context(), sess, id, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

// deleteResponse reports whether the delete went through or was declined.
type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

// DeleteFlight handles DELETE /api/flights/{id}. Administrator only.
//
// The confirmation dialog lives in the browser; its answer arrives as the
// confirm query parameter. Anything other than confirm=true is a declined
// confirmation, which the service treats as a no-op — the store is never
// called.
func (s *Server) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id, err := flightID(r)
	if err != nil {
		s.requestError(w, "malformed flight id")
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	confirm := service.ConfirmFunc(func(context.Context, string) bool { return confirmed })

	deleted, err := s.flights.Delete(r.Context(), sess, id, confirm)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deleteResponse{Deleted: deleted})
}

// signupRequest carries the client-held snapshot of the signup list the
// toggle is computed against.
type signupRequest struct {
	SignedUpUsers []string `json:"signed_up_users"`
}

// ToggleSignup handles POST /api/flights/{id}/signup.
// Any signed-in participant may toggle their own membership; the target
// participant is always the session's own identity.
func (s *Server) ToggleSignup(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id, err := flightID(r)
	if err != nil {
		s.requestError(w, "malformed flight id")
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.requestError(w, "malformed request body")
		return
	}

	updated, err := s.flights.ToggleSignup(r.Context(), sess, id, req.SignedUpUsers)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}
