package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	signed, err := codec.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewCodec("secret-a", time.Hour).Issue(7)
	require.NoError(t, err)

	_, err = NewCodec("secret-b", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := NewCodec("test-secret", -time.Minute)

	signed, err := codec.Issue(7)
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenString)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	signed, err := codec.Issue(7)
	require.NoError(t, err)

	tampered := signed[:len(signed)-2] + "xx"
	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
