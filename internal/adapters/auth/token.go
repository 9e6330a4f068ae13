package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/phenrril/backoffice/internal/domain"
)

const (
	RoleAdmin = "Admin"

	roleClaim     = "role"
	usernameClaim = "username"
	nameClaim     = "name"
)

// TokenIssuer signs HS256 JWTs for authenticated administrators.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	alg      jwa.SignatureAlgorithm
	now      func() time.Time
}

func NewTokenIssuer(secret, issuer, audience string, expirationMinutes int) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if expirationMinutes <= 0 {
		expirationMinutes = 60
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      time.Duration(expirationMinutes) * time.Minute,
		alg:      jwa.HS256,
		now:      time.Now,
	}, nil
}

func (t *TokenIssuer) ExpirationHorizon() time.Time {
	return t.now().Add(t.ttl).UTC().Truncate(time.Second)
}

func (t *TokenIssuer) Issue(username string) (string, time.Time, error) {
	now := t.now().UTC().Truncate(time.Second)
	exp := now.Add(t.ttl)
	tok, err := jwt.NewBuilder().
		JwtID(newTokenID()).
		Subject(username).
		Issuer(t.issuer).
		Audience([]string{t.audience}).
		IssuedAt(now).
		NotBefore(now).
		Expiration(exp).
		Claim(nameClaim, username).
		Claim(usernameClaim, username).
		Claim(roleClaim, RoleAdmin).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(t.alg, t.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return string(signed), exp, nil
}

// Claims is the verified subset of a token the HTTP layer needs.
type Claims struct {
	Username  string
	Role      string
	ExpiresAt time.Time
}

// Verify checks signature, issuer, audience and validity window.
func (t *TokenIssuer) Verify(raw string) (*Claims, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(t.alg, t.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithClock(jwt.ClockFunc(t.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	role, _ := tok.PrivateClaims()[roleClaim].(string)
	username, _ := tok.PrivateClaims()[usernameClaim].(string)
	if username == "" {
		username = tok.Subject()
	}
	if role != RoleAdmin || username == "" {
		return nil, fmt.Errorf("%w: missing claims", domain.ErrInvalidToken)
	}
	return &Claims{Username: username, Role: role, ExpiresAt: tok.Expiration()}, nil
}
