// Package jwt provides HMAC-signed JWT authentication.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

// DefaultTTL is the lifetime of issued tokens.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carry the caller identity.
type Claims struct {
	Scopes []string `json:"scopes,omitempty"`
	gojwt.RegisteredClaims
}

// Provider implements ports.AuthProvider.
type Provider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.AuthProvider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithIssuer sets and enforces the iss claim.
func WithIssuer(iss string) Option {
	return func(p *Provider) {
		p.issuer = iss
	}
}

// WithTTL sets the lifetime of issued tokens.
func WithTTL(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.ttl = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// NewProvider creates a provider that signs and verifies with secret.
func NewProvider(secret string, opts ...Option) (*Provider, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("jwt secret must be at least 16 bytes")
	}
	p := &Provider{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Issue signs a token for userID.
func (p *Provider) Issue(userID string, scopes ...string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	now := p.now()
	claims := &Claims{
		Scopes: scopes,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Authenticate verifies token and returns the caller identity from its
// subject claim.
func (p *Provider) Authenticate(ctx context.Context, token string) (*ports.AuthContext, error) {
	parserOpts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		parserOpts = append(parserOpts, gojwt.WithIssuer(p.issuer))
	}

	parsed, err := gojwt.ParseWithClaims(token, &Claims{}, func(t *gojwt.Token) (interface{}, error) {
		return p.secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &ports.AuthContext{
		UserID: claims.Subject,
		Scopes: claims.Scopes,
		Metadata: map[string]string{
			"issuer": claims.Issuer,
		},
	}, nil
}
