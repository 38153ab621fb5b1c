package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"pet-care-planner/internal/ports/auth"
)

var (
	ErrNoKey        = errors.New("jwt key required")
	ErrInvalidToken = errors.New("invalid token")
)

// Verifier valida tokens HS256 firmados con una clave compartida.
// El subject (sub) es el owner id; el claim roles puede traer "admin".
type Verifier struct {
	key    []byte
	issuer string
}

type tokenClaims struct {
	Email    string   `json:"email,omitempty"`
	TenantID string   `json:"tenant_id,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func NewVerifier(key, issuer string) (*Verifier, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNoKey
	}
	return &Verifier{key: []byte(key), issuer: strings.TrimSpace(issuer)}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var c tokenClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &c, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub := strings.TrimSpace(c.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	return auth.Claims{
		UserID:   sub,
		Email:    strings.TrimSpace(c.Email),
		TenantID: strings.TrimSpace(c.TenantID),
		Roles:    c.Roles,
	}, nil
}
