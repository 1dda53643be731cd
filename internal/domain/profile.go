package domain

// Profile is a participant's self-chosen display name. One row per
// participant, keyed by the opaque participant ID. Writes are whole-document
// overwrites — no history is kept, last write wins.
type Profile struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
}

// fallbackNameLen is how many leading characters of a participant ID are
// shown when the participant never chose a display name.
const fallbackNameLen = 8

// FallbackName returns the deterministic display name used for a participant
// without a stored Profile: the first 8 characters of the ID (or the whole ID
// if shorter).
func FallbackName(participantID string) string {
	if len(participantID) <= fallbackNameLen {
		return participantID
	}
	return participantID[:fallbackNameLen]
}
