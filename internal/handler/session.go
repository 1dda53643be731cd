package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// signInRequest optionally carries the participant ID from a previous visit.
type signInRequest struct {
	ParticipantID string `json:"participant_id"`
}

// signInResponse returns the session credentials the client sends on every
// subsequent request. The participant ID should be stored by the client so
// its identity is stable across sessions.
type signInResponse struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
}

// SignIn handles POST /api/session.
// The body is optional: first contact sends nothing and gets a fresh
// participant ID; returning clients send their stored one.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.requestError(w, "malformed request body")
		return
	}

	sess := s.sessions.SignIn(req.ParticipantID)
	s.writeJSON(w, http.StatusOK, signInResponse{
		SessionID:     sess.ID,
		ParticipantID: sess.ParticipantID,
	})
}

// SignOut handles DELETE /api/session.
// Tears the session down; administrator authority does not survive it.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.sessions.SignOut(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// adminLoginRequest carries the submitted PIN.
type adminLoginRequest struct {
	PIN string `json:"pin"`
}

// AdminLogin handles POST /api/admin/login.
// Grants administrator authority for this session iff the PIN matches the
// shared secret. A wrong PIN returns 401 and changes nothing; every attempt
// is independent.
func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.requestError(w, "malformed request body")
		return
	}

	if err := sess.Gate.Login(req.PIN); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminLogout handles POST /api/admin/logout.
// Explicitly drops administrator authority, returning the session to guest.
func (s *Server) AdminLogout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess.Gate.Logout()
	w.WriteHeader(http.StatusNoContent)
}
