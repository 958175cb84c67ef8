package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	verifier := NewTokenVerifier("test-secret")

	token, err := verifier.Sign("auth0|12345", time.Minute)
	require.NoError(t, err)

	subject, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|12345", subject)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenVerifier("secret-a").Sign("auth0|12345", time.Minute)
	require.NoError(t, err)

	_, err = NewTokenVerifier("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	verifier := NewTokenVerifier("test-secret")
	token, err := verifier.Sign("auth0|12345", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewTokenVerifier("test-secret").Verify("not.a.token")
	assert.Error(t, err)
}

func TestVerifyMissingSubject(t *testing.T) {
	verifier := NewTokenVerifier("test-secret")
	token, err := verifier.Sign("", time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}
