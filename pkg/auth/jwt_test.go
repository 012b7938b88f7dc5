package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilemart/server/pkg/auth"
)

func TestIssueAndVerify(t *testing.T) {
	token, err := auth.Issue("buyer@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", claims.Email)
}

func TestVerify_EmptyToken(t *testing.T) {
	_, err := auth.Verify("")
	assert.ErrorIs(t, err, auth.ErrMissingToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := auth.Verify("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	token, err := auth.Issue("buyer@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = auth.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_EmptyEmailClaim(t *testing.T) {
	token, err := auth.Issue("", time.Hour)
	require.NoError(t, err)

	_, err = auth.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Tampered(t *testing.T) {
	token, err := auth.Issue("buyer@example.com", time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = auth.Verify(tampered)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
