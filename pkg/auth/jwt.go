// Package auth verifies session tokens issued by the external identity
// provider and carries the resolved user through the request context.
//
// The storefront never stores credentials. A caller is identified solely by
// the `sub` claim of a bearer token signed by the provider (RS256 with the
// provider's public key) or, in local development, by a shared HS256 secret.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoVerificationKey = errors.New("auth: no verification key configured")

// Claims holds the subset of the provider's session token we rely on.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the resolved caller.
type Identity struct {
	UserID string
	Email  string
}

// Verifier validates bearer tokens.
type Verifier struct {
	publicKey *rsa.PublicKey
	secret    []byte
	issuer    string
	leeway    time.Duration
}

// NewVerifier builds a verifier from a PEM encoded RSA public key, falling
// back to secret when pemKey is empty.
func NewVerifier(pemKey, secret, issuer string) (*Verifier, error) {
	v := &Verifier{issuer: issuer, leeway: 30 * time.Second}

	if strings.TrimSpace(pemKey) != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
		if err != nil {
			return nil, fmt.Errorf("auth: parse public key: %w", err)
		}
		v.publicKey = key
		return v, nil
	}

	if secret == "" {
		return nil, ErrNoVerificationKey
	}
	v.secret = []byte(secret)
	return v, nil
}

// Verify parses and validates token and returns the caller identity.
func (v *Verifier) Verify(token string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.publicKey != nil {
		opts = append(opts, jwt.WithValidMethods([]string{"RS256"}))
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{"HS256"}))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		if v.publicKey != nil {
			return v.publicKey, nil
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: verify: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}

	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// IssueToken signs an HS256 token for userID. Used for local development and
// tests where no identity provider is running.
func IssueToken(secret, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the identity in ctx, if any.
func FromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// UserID returns the current caller's user id.
func UserID(ctx context.Context) (string, bool) {
	id, ok := FromCtx(ctx)
	return id.UserID, ok
}
