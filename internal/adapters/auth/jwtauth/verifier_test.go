package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, key string, c tokenClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestVerifier_Verify(t *testing.T) {
	v, err := NewVerifier("secret", "pet-care")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	good := sign(t, "secret", tokenClaims{
		Email: "owner@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "owner-1",
			Issuer:    "pet-care",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	claims, err := v.Verify(context.Background(), good)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.OwnerID() != "owner-1" || claims.Email != "owner@example.com" {
		t.Fatalf("unexpected claims %#v", claims)
	}

	bad := map[string]string{
		"wrong key": sign(t, "other", tokenClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "owner-1", Issuer: "pet-care", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}),
		"expired": sign(t, "secret", tokenClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "owner-1", Issuer: "pet-care", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}),
		"no sub": sign(t, "secret", tokenClaims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "pet-care", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}),
		"garbage": "not-a-token",
	}
	for name, tok := range bad {
		if _, err := v.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestVerifier_CarriesRoles(t *testing.T) {
	v, err := NewVerifier("secret", "")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	tok := sign(t, "secret", tokenClaims{
		Roles: []string{"admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	claims, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !claims.IsAdmin() {
		t.Fatalf("expected admin role, got %#v", claims.Roles)
	}
}

func TestNewVerifier_RequiresKey(t *testing.T) {
	if _, err := NewVerifier(" ", ""); !errors.Is(err, ErrNoKey) {
		t.Fatalf("expected ErrNoKey, got %v", err)
	}
}
