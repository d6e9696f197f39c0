package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newVerifier(now *time.Time) *Verifier {
	return NewVerifier("test-secret-with-enough-length", "cofrinho", WithNow(func() time.Time { return *now }))
}

func TestIssueAndVerify(t *testing.T) {
	now := base
	v := newVerifier(&now)

	token, err := v.Issue("user-1", "Ana", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	s, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if s.UserID != "user-1" || s.Name != "Ana" || !s.ExpiresAt.Equal(base.Add(time.Hour)) {
		t.Errorf("Verify() = %+v", s)
	}
}

func TestVerifyRejects(t *testing.T) {
	now := base
	v := newVerifier(&now)
	good, _ := v.Issue("user-1", "", time.Hour)

	other := NewVerifier("another-secret-with-enough-len", "cofrinho", WithNow(func() time.Time { return now }))
	forged, _ := other.Issue("user-1", "", time.Hour)

	wrongIssuer := NewVerifier("test-secret-with-enough-length", "elsewhere", WithNow(func() time.Time { return now }))
	foreign, _ := wrongIssuer.Issue("user-1", "", time.Hour)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer: "cofrinho", ExpiresAt: jwt.NewNumericDate(base.Add(time.Hour)),
	}}).SignedString([]byte("test-secret-with-enough-length"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer: "cofrinho", Subject: "user-1",
	}}).SignedString([]byte("test-secret-with-enough-length"))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong key", forged, ErrInvalidToken},
		{"wrong issuer", foreign, ErrInvalidToken},
		{"no subject", noSubject, ErrInvalidToken},
		{"no expiry", noExpiry, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}

	now = base.Add(2 * time.Hour)
	if _, err := v.Verify(good); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestRevoke(t *testing.T) {
	now := base
	v := newVerifier(&now)
	token, _ := v.Issue("user-1", "", time.Hour)
	other, _ := v.Issue("user-1", "", time.Hour)

	s, err := v.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	v.Revoke(s)

	if _, err := v.Verify(token); !errors.Is(err, ErrRevoked) {
		t.Errorf("Verify(revoked) error = %v, want ErrRevoked", err)
	}
	if _, err := v.Verify(other); err != nil {
		t.Errorf("another session of the same user was revoked: %v", err)
	}
}

func TestRevocationSurvivesManyLaterSignOuts(t *testing.T) {
	now := base
	v := newVerifier(&now)
	token, _ := v.Issue("user-1", "", time.Hour)
	s, err := v.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	v.Revoke(s)

	for i := 0; i < 10001; i++ {
		v.Revoke(Session{UserID: "user-2", TokenID: fmt.Sprintf("jti-%d", i), ExpiresAt: now.Add(time.Hour)})
	}

	if _, err := v.Verify(token); !errors.Is(err, ErrRevoked) {
		t.Errorf("Verify(first revoked) error = %v, want ErrRevoked", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"abc":          "",
		"":             "",
	}
	for in, want := range tests {
		if got := BearerToken(in); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("empty context has a session")
	}
	ctx := NewContext(context.Background(), Session{UserID: "u"})
	if s, ok := FromContext(ctx); !ok || s.UserID != "u" {
		t.Errorf("FromContext() = %+v, %v", s, ok)
	}
}
