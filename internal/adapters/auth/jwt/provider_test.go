package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestNewProvider_RejectsShortSecret(t *testing.T) {
	if _, err := NewProvider("short"); err == nil {
		t.Error("NewProvider() error = nil, want error")
	}
}

func TestIssueAndAuthenticate(t *testing.T) {
	p, err := NewProvider(secret, WithIssuer("interview-coach"))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	token, err := p.Issue("user-42", "sessions:write")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	auth, err := p.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if auth.UserID != "user-42" {
		t.Errorf("UserID = %q, want user-42", auth.UserID)
	}
	if len(auth.Scopes) != 1 || auth.Scopes[0] != "sessions:write" {
		t.Errorf("Scopes = %v, want [sessions:write]", auth.Scopes)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	p, _ := NewProvider(secret, WithIssuer("interview-coach"), WithClock(clock), WithTTL(time.Hour))
	valid, _ := p.Issue("user-1")

	other, _ := NewProvider("fedcba9876543210fedcba9876543210", WithIssuer("interview-coach"), WithClock(clock))
	foreign, _ := other.Issue("user-1")

	wrongIssuer, _ := NewProvider(secret, WithIssuer("someone-else"), WithClock(clock))
	misissued, _ := wrongIssuer.Issue("user-1")

	later, _ := NewProvider(secret, WithIssuer("interview-coach"), WithClock(func() time.Time { return now.Add(2 * time.Hour) }))

	noneToken, _ := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "interview-coach",
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name     string
		provider *Provider
		token    string
	}{
		{name: "garbage", provider: p, token: "not-a-jwt"},
		{name: "wrong secret", provider: p, token: foreign},
		{name: "wrong issuer", provider: p, token: misissued},
		{name: "expired", provider: later, token: valid},
		{name: "alg none", provider: p, token: noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.provider.Authenticate(context.Background(), tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Authenticate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestIssue_RequiresUser(t *testing.T) {
	p, _ := NewProvider(secret)
	if _, err := p.Issue(""); err == nil {
		t.Error("Issue(\"\") error = nil, want error")
	}
}
