package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dralexander0805/avg/internal/domain"
	"github.com/dralexander0805/avg/internal/identity"
)

func TestProvider_SignIn_FirstContact(t *testing.T) {
	p := identity.NewProvider("54321")

	sess := p.SignIn("")

	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.ParticipantID)
	assert.NotEqual(t, sess.ID, sess.ParticipantID)
	assert.False(t, sess.Gate.IsAdmin(), "fresh session must start as guest")
}

// TestProvider_SignIn_ReturningParticipant verifies the identity contract:
// a client that presents its stored participant ID keeps it, while the
// session ID is fresh per sign-in.
func TestProvider_SignIn_ReturningParticipant(t *testing.T) {
	p := identity.NewProvider("54321")

	first := p.SignIn("")
	second := p.SignIn(first.ParticipantID)

	assert.Equal(t, first.ParticipantID, second.ParticipantID)
	assert.NotEqual(t, first.ID, second.ID)
}

// TestProvider_SignIn_GateDoesNotPersist verifies that administrator
// authority dies with the session: signing in again with the same
// participant ID starts over as guest.
func TestProvider_SignIn_GateDoesNotPersist(t *testing.T) {
	p := identity.NewProvider("54321")

	first := p.SignIn("")
	require.NoError(t, first.Gate.Login("54321"))
	require.True(t, first.Gate.IsAdmin())

	second := p.SignIn(first.ParticipantID)

	assert.False(t, second.Gate.IsAdmin())
}

func TestProvider_Lookup(t *testing.T) {
	p := identity.NewProvider("54321")
	sess := p.SignIn("")

	got, err := p.Lookup(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = p.Lookup("no-such-session")
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestProvider_SignOut(t *testing.T) {
	p := identity.NewProvider("54321")
	sess := p.SignIn("")

	p.SignOut(sess.ID)

	_, err := p.Lookup(sess.ID)
	assert.ErrorIs(t, err, domain.ErrNoSession)

	// Sign-out is idempotent.
	p.SignOut(sess.ID)
}
