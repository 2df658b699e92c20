package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiquebutik/butik/pkg/auth"
)

func TestSecretRoundTrip(t *testing.T) {
	v, err := auth.NewVerifier("", "dev-secret", "")
	require.NoError(t, err)

	token, err := auth.IssueToken("dev-secret", "user_2abc", "anna@example.se", time.Hour)
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: "user_2abc", Email: "anna@example.se"}, id)
}

func TestRejectsWrongSecretAndExpiry(t *testing.T) {
	v, err := auth.NewVerifier("", "dev-secret", "")
	require.NoError(t, err)

	forged, _ := auth.IssueToken("other-secret", "user_1", "", time.Hour)
	_, err = v.Verify(forged)
	assert.Error(t, err)

	expired, _ := auth.IssueToken("dev-secret", "user_1", "", -time.Hour)
	_, err = v.Verify(expired)
	assert.Error(t, err)
}

func TestRSAPublicKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	v, err := auth.NewVerifier(string(pemKey), "", "https://clerk.chiquebutik.se")
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		Subject:   "user_rsa",
		Issuer:    "https://clerk.chiquebutik.se",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)

	id, err := v.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user_rsa", id.UserID)

	// HS256 tokens must not be accepted once an RSA key is configured.
	hs, _ := auth.IssueToken("whatever", "user_rsa", "", time.Minute)
	_, err = v.Verify(hs)
	assert.Error(t, err)
}

func TestNoKeyConfigured(t *testing.T) {
	_, err := auth.NewVerifier("", "", "")
	assert.ErrorIs(t, err, auth.ErrNoVerificationKey)
}

func TestContextHelpers(t *testing.T) {
	_, ok := auth.UserID(context.Background())
	assert.False(t, ok)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: "user_1"})
	uid, ok := auth.UserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user_1", uid)
}
