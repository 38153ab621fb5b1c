package odin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOdinServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != verifyPath || r.Header.Get("X-Api-Key") != "k" {
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body["token"] {
		case "good":
			_ = json.NewEncoder(w).Encode(map[string]string{"user_id": " owner-1 ", "email": "a@b.c"})
		case "broken":
			_ = json.NewEncoder(w).Encode(map[string]string{"email": "a@b.c"})
		default:
			http.Error(w, "nope", http.StatusUnauthorized)
		}
	}))
}

func TestVerifier_Verify(t *testing.T) {
	srv := newOdinServer(t)
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	v := NewVerifier(c)

	claims, err := v.Verify(context.Background(), "good")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "owner-1" || claims.Email != "a@b.c" {
		t.Fatalf("unexpected claims %#v", claims)
	}

	if _, err := v.Verify(context.Background(), "bad"); !errors.Is(err, ErrOdinUnauthorized) {
		t.Fatalf("expected ErrOdinUnauthorized, got %v", err)
	}
	if _, err := v.Verify(context.Background(), "broken"); !errors.Is(err, ErrOdinUpstream) {
		t.Fatalf("expected ErrOdinUpstream, got %v", err)
	}
	if _, err := v.Verify(context.Background(), " "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.VerifyToken(context.Background(), "x"); !errors.Is(err, ErrOdinNotConfigured) {
		t.Fatalf("expected ErrOdinNotConfigured, got %v", err)
	}
}
