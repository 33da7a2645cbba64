package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	token, issued, err := Issue("s3cret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, "ledger", claims.Issuer)
}

func TestIssue_DefaultTTL(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	_, claims, err := issueAt("s3cret", 0, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(DefaultTTL), claims.ExpiresAt.Time.UTC())
}

func TestParse_Rejects(t *testing.T) {
	valid, _, err := Issue("s3cret", time.Hour)
	require.NoError(t, err)

	expired, _, err := issueAt("s3cret", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "ledger",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "WrongSecret", secret: "other", token: valid},
		{name: "Expired", secret: "s3cret", token: expired},
		{name: "NoneAlgorithm", secret: "s3cret", token: none},
		{name: "Garbage", secret: "s3cret", token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNoSecret(t *testing.T) {
	_, _, err := Issue("", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = Parse("", "x")
	assert.ErrorIs(t, err, ErrNoSecret)
}
