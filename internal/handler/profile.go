package handler

import (
	"encoding/json"
	"net/http"
)

// profileRequest carries the participant's chosen display name.
type profileRequest struct {
	DisplayName string `json:"display_name"`
}

// SaveProfile handles PUT /api/profile.
// Overwrites the caller's own display name wholesale. Peers that have
// already cached the old name keep seeing it until they reconnect.
func (s *Server) SaveProfile(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.requestError(w, "malformed request body")
		return
	}

	if err := s.profiles.SaveDisplayName(r.Context(), sess, req.DisplayName); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
