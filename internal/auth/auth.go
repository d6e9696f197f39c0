// Package auth verifies the session tokens issued by the identity provider
// and keeps a revocation list for signed-out tokens.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"cofrinho/internal/cache"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrRevoked      = errors.New("token revoked")
)

// Claims are the fields read from a session token.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Session is the authenticated caller.
type Session struct {
	UserID    string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

type Verifier struct {
	secret  []byte
	issuer  string
	revoked cache.Cache[struct{}]
	now     func() time.Time
}

type Option func(*Verifier)

// WithNow pins the clock used for expiry checks.
func WithNow(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// WithRevocations replaces the default revocation cache.
func WithRevocations(c cache.Cache[struct{}]) Option {
	return func(v *Verifier) { v.revoked = c }
}

// NewVerifier accepts HS256 tokens signed with secret. A non-empty issuer is
// enforced.
func NewVerifier(secret, issuer string, opts ...Option) *Verifier {
	v := &Verifier{
		secret:  []byte(secret),
		issuer:  issuer,
		revoked: cache.NewTTLCache[struct{}](24 * time.Hour),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify parses and validates a raw token.
func (v *Verifier) Verify(raw string) (Session, error) {
	if raw == "" {
		return Session{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Session{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	s := Session{
		UserID:    claims.Subject,
		Name:      claims.Name,
		TokenID:   revocationKey(claims.ID, raw),
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if _, revoked := v.revoked.Get(s.TokenID); revoked {
		return Session{}, ErrRevoked
	}
	return s, nil
}

// Revoke rejects the session's token until it would have expired anyway.
func (v *Verifier) Revoke(s Session) {
	ttl := s.ExpiresAt.Sub(v.now())
	if ttl <= 0 {
		return
	}
	v.revoked.SetWithTTL(s.TokenID, struct{}{}, ttl)
}

// Issue signs a token for userID. The identity provider mints production
// tokens; this serves local runs and tests.
func (v *Verifier) Issue(userID, name string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// revocationKey prefers the token id and falls back to a digest of the token.
func revocationKey(jti, raw string) string {
	if jti != "" {
		return "jti:" + jti
	}
	sum := sha256.Sum256([]byte(raw))
	return "sha:" + hex.EncodeToString(sum[:])
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

type contextKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
