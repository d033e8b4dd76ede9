package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-token-service-0123456789"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTokenServiceRoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	service := NewTokenService(testSecret, DefaultTokenTTL).WithClock(fixedClock(issuedAt))

	token, err := service.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ParseAndVerify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, issuedAt, claims.IssuedAt)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt))

	assert.True(t, service.IsValid(token, "alice"))
}

func TestTokenServiceSubjectMismatch(t *testing.T) {
	service := NewTokenService(testSecret, DefaultTokenTTL)

	token, err := service.Issue("alice")
	require.NoError(t, err)

	assert.False(t, service.IsValid(token, "bob"))
}

func TestTokenServiceTamperedSignature(t *testing.T) {
	service := NewTokenService(testSecret, DefaultTokenTTL)

	token, err := service.Issue("alice")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = service.ParseAndVerify(tampered)
	assert.ErrorIs(t, err, ErrBadSignature)
	assert.False(t, service.IsValid(tampered, "alice"))
}

func TestTokenServiceWrongKey(t *testing.T) {
	issuer := NewTokenService(testSecret, DefaultTokenTTL)
	verifier := NewTokenService("another-secret-key-entirely-9876543210", DefaultTokenTTL)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.ParseAndVerify(token)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestTokenServiceMalformed(t *testing.T) {
	service := NewTokenService(testSecret, DefaultTokenTTL)

	for _, tokenStr := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := service.ParseAndVerify(tokenStr)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tokenStr)
	}
}

func TestTokenServiceExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	clock := issuedAt
	service := NewTokenService(testSecret, DefaultTokenTTL).WithClock(func() time.Time { return clock })

	token, err := service.Issue("alice")
	require.NoError(t, err)
	assert.True(t, service.IsValid(token, "alice"))

	// Just before expiry the token still verifies.
	clock = issuedAt.Add(24*time.Hour - time.Minute)
	assert.True(t, service.IsValid(token, "alice"))

	clock = issuedAt.Add(24*time.Hour + time.Minute)
	_, err = service.ParseAndVerify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.False(t, service.IsValid(token, "alice"))
}

func TestTokenServiceRejectsForeignSigningMethod(t *testing.T) {
	service := NewTokenService(testSecret, DefaultTokenTTL)

	now := time.Now().UTC()
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "alice",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})
	token, err := foreign.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = service.ParseAndVerify(token)
	assert.Error(t, err)
	assert.False(t, service.IsValid(token, "alice"))
}

func TestTokenServiceRejectsMissingExpiry(t *testing.T) {
	service := NewTokenService(testSecret, DefaultTokenTTL)

	unbounded := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"iat": time.Now().UTC().Unix(),
	})
	token, err := unbounded.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = service.ParseAndVerify(token)
	assert.Error(t, err)
}
