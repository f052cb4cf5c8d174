package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionStoreEstablish(t *testing.T) {
	s := NewSessionStore()

	token := s.NewToken()
	require.False(t, s.IsAuthenticated(token))

	s.Establish(token, 42)
	require.True(t, s.IsAuthenticated(token))

	userID, ok := s.UserID(token)
	require.True(t, ok)
	require.Equal(t, int64(42), userID)
}

func TestSessionsAreIndependent(t *testing.T) {
	s := NewSessionStore()

	alice := s.NewToken()
	bob := s.NewToken()
	require.NotEqual(t, alice, bob)

	s.Establish(alice, 1)
	s.Establish(bob, 2)

	aliceID, _ := s.UserID(alice)
	bobID, _ := s.UserID(bob)
	require.Equal(t, int64(1), aliceID)
	require.Equal(t, int64(2), bobID)
}

func TestSignAndVerifyToken(t *testing.T) {
	SetSecret("test-secret")

	signed, err := SignToken("some-session-token")
	require.NoError(t, err)
	require.NotEqual(t, "some-session-token", signed)

	token, err := VerifyToken(signed)
	require.NoError(t, err)
	require.Equal(t, "some-session-token", token)
}

func TestVerifyRejectsTamperedCookie(t *testing.T) {
	SetSecret("test-secret")

	signed, err := SignToken("some-session-token")
	require.NoError(t, err)

	tampered := signed[:len(signed)-4] + "xxxx"
	_, err = VerifyToken(tampered)
	require.Error(t, err)

	_, err = VerifyToken("not-a-cookie-at-all")
	require.Error(t, err)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	SetSecret("secret-one")
	signed, err := SignToken("some-session-token")
	require.NoError(t, err)

	SetSecret("secret-two")
	_, err = VerifyToken(signed)
	require.Error(t, err)
}
