// Package identity issues participant identities and resolves them to
// display names for rendering.
package identity

import (
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/dralexander0805/avg/internal/access"
	"github.com/dralexander0805/avg/internal/domain"
)

// Session is the per-connection context: a stable participant identity plus
// the administrator gate for this sign-in. The gate lives here rather than
// in ambient state so its lifetime is exactly the session's — constructed on
// sign-in, discarded on sign-out.
type Session struct {
	// ID identifies this sign-in and is sent by the client on every request.
	ID string
	// ParticipantID is the stable identity; it survives across sessions
	// because the client presents it again on its next sign-in.
	ParticipantID string
	// Gate is the administrator gate, always Guest for a fresh session.
	Gate *access.Gate
}

// Provider hands out participant identities and tracks live sessions.
//
// A participant ID is minted once, on first contact, and thereafter supplied
// by the client; the provider never destroys one. Session IDs are fresh per
// sign-in.
type Provider struct {
	adminPIN string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewProvider constructs a Provider. adminPIN seeds each session's gate.
func NewProvider(adminPIN string) *Provider {
	return &Provider{
		adminPIN: adminPIN,
		sessions: make(map[string]*Session),
	}
}

// SignIn establishes a session. An empty existingParticipantID means first
// contact: a new participant ID is minted. A non-empty one is reused
// verbatim, which is what keeps identities stable across sessions.
func (p *Provider) SignIn(existingParticipantID string) *Session {
	participantID := existingParticipantID
	if participantID == "" {
		participantID = ulid.Make().String()
	}

	sess := &Session{
		ID:            ulid.Make().String(),
		ParticipantID: participantID,
		Gate:          access.NewGate(p.adminPIN),
	}

	p.mu.Lock()
	p.sessions[sess.ID] = sess
	p.mu.Unlock()

	return sess
}

// Lookup returns the live session for sessionID, or domain.ErrNoSession.
func (p *Provider) Lookup(sessionID string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sess, ok := p.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

// SignOut tears the session down. Administrator authority dies with the
// session; the participant ID lives on with the client. Unknown IDs are a
// no-op so sign-out is idempotent.
func (p *Provider) SignOut(sessionID string) {
	p.mu.Lock()
	delete(p.sessions, sessionID)
	p.mu.Unlock()
}
