package identity_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmiller3/enact/pkg/identity"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("any-secret-works-parsing-ignores-it"))
	require.NoError(t, err)
	return s
}

func TestParseUnverified_ExtractsEmailClaim(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"email": "a@x.com", "team": "platform"})

	claims, err := identity.ParseUnverified(tok)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "platform", claims.Attributes["team"])
}

func TestParseUnverified_FallsBackToSubjectClaim(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "agent-42"})

	claims, err := identity.ParseUnverified(tok)
	require.NoError(t, err)

	assert.Equal(t, "agent-42", claims.Email)
}

func TestParseUnverified_IgnoresSignatureValidity(t *testing.T) {
	// A token signed under a key that doesn't matter, and in fact never
	// checked: ParseUnverified must succeed even though no verification
	// key is supplied anywhere in this test.
	tok := signedToken(t, jwt.MapClaims{"email": "tampered@x.com"})

	claims, err := identity.ParseUnverified(tok)
	require.NoError(t, err)
	assert.Equal(t, "tampered@x.com", claims.Email)
}

func TestParseUnverified_RejectsMalformedToken(t *testing.T) {
	_, err := identity.ParseUnverified("not-a-jwt")
	assert.Error(t, err)
}
