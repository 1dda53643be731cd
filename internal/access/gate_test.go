package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dralexander0805/avg/internal/access"
	"github.com/dralexander0805/avg/internal/domain"
)

const testPIN = "54321"

func TestGate_StartsAsGuest(t *testing.T) {
	g := access.NewGate(testPIN)

	assert.Equal(t, access.Guest, g.Role())
	assert.False(t, g.IsAdmin())
}

func TestGate_Login_CorrectPIN(t *testing.T) {
	g := access.NewGate(testPIN)

	require.NoError(t, g.Login("54321"))

	assert.Equal(t, access.Administrator, g.Role())
	assert.True(t, g.IsAdmin())
}

// TestGate_Login_WrongPIN verifies that repeated wrong attempts each fail
// independently and leave the gate in Guest — there is no lockout and no
// partial credit.
func TestGate_Login_WrongPIN(t *testing.T) {
	g := access.NewGate(testPIN)

	for _, pin := range []string{"00000", "5432", "543210"} {
		err := g.Login(pin)
		assert.ErrorIs(t, err, domain.ErrWrongPIN, "pin %q", pin)
		assert.False(t, g.IsAdmin(), "pin %q should leave gate as guest", pin)
	}

	// A correct attempt still works after any number of failures.
	require.NoError(t, g.Login(testPIN))
	assert.True(t, g.IsAdmin())
}

// TestGate_Login_ExactMatchOnly verifies the comparison is exact: no
// trimming, no prefix matching.
func TestGate_Login_ExactMatchOnly(t *testing.T) {
	g := access.NewGate(testPIN)

	assert.ErrorIs(t, g.Login(" 54321"), domain.ErrWrongPIN)
	assert.ErrorIs(t, g.Login("54321 "), domain.ErrWrongPIN)
	assert.ErrorIs(t, g.Login(""), domain.ErrWrongPIN)
	assert.False(t, g.IsAdmin())
}

func TestGate_Logout(t *testing.T) {
	g := access.NewGate(testPIN)
	require.NoError(t, g.Login(testPIN))

	g.Logout()

	assert.Equal(t, access.Guest, g.Role())

	// Logout in Guest state is a harmless no-op.
	g.Logout()
	assert.Equal(t, access.Guest, g.Role())
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "guest", access.Guest.String())
	assert.Equal(t, "administrator", access.Administrator.String())
}
