package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-erp-gateway/token"
)

const (
	testSecret = "unit-test-secret"
	testIssuer = "erp-gateway"
)

func TestNewRequiresSecret(t *testing.T) {
	_, err := token.New("", time.Minute, testIssuer)
	require.ErrorIs(t, err, token.MissingSecretErr)
}

func TestGenerateValidateRoundTrip(t *testing.T) {
	manager, err := token.New(testSecret, 30*time.Minute, testIssuer)
	require.NoError(t, err)

	signed, expiresAt, err := manager.Generate("b1-session-token", "SBO_COMPANY", "admin@adt.local")
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := manager.Validate(signed)
	require.NoError(t, err)
	require.Equal(t, "b1-session-token", claims.BackendSession)
	require.Equal(t, "SBO_COMPANY", claims.CompanyID)
	require.Equal(t, "admin@adt.local", claims.Email)
	require.Equal(t, testIssuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestValidateExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt

	manager, err := token.New(testSecret, 30*time.Minute, testIssuer,
		token.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	signed, _, err := manager.Generate("b1-session-token", "SBO_COMPANY", "admin@adt.local")
	require.NoError(t, err)

	now = issuedAt.Add(29 * time.Minute)
	_, err = manager.Validate(signed)
	require.NoError(t, err)

	now = issuedAt.Add(31 * time.Minute)
	_, err = manager.Validate(signed)
	require.ErrorIs(t, err, token.ExpiredTokenErr)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager, err := token.New(testSecret, time.Minute, testIssuer)
	require.NoError(t, err)
	other, err := token.New("some-other-secret", time.Minute, testIssuer)
	require.NoError(t, err)

	signed, _, err := other.Generate("b1-session-token", "SBO_COMPANY", "")
	require.NoError(t, err)

	_, err = manager.Validate(signed)
	require.ErrorIs(t, err, token.InvalidTokenErr)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	manager, err := token.New(testSecret, time.Minute, testIssuer)
	require.NoError(t, err)
	other, err := token.New(testSecret, time.Minute, "someone-else")
	require.NoError(t, err)

	signed, _, err := other.Generate("b1-session-token", "SBO_COMPANY", "")
	require.NoError(t, err)

	_, err = manager.Validate(signed)
	require.ErrorIs(t, err, token.InvalidTokenErr)
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager, err := token.New(testSecret, time.Minute, testIssuer)
	require.NoError(t, err)

	_, err = manager.Validate("not.a.token")
	require.ErrorIs(t, err, token.InvalidTokenErr)
}
