package shot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shotbuilder/backend/internal/config"
	"github.com/shotbuilder/backend/internal/tokens"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ShareTokenTTL = time.Hour
	return cfg
}

func TestEnableShareRoundTrip(t *testing.T) {
	repo := newFakeRepo(&Shot{ID: "s1", ClientID: "c1", ProjectID: "p1", Name: "Look 1"})
	svc := NewService(repo, testConfig())

	token, err := svc.EnableShare(context.Background(), "c1", "s1")
	if err != nil {
		t.Fatalf("enable share failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}

	got, err := svc.ResolveShare(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got.ID != "s1" || got.ClientID != "c1" {
		t.Fatalf("resolved wrong shot: %+v", got)
	}
}

func TestEnableShareIsIdempotent(t *testing.T) {
	repo := newFakeRepo(&Shot{ID: "s1", ClientID: "c1", ProjectID: "p1", Name: "Look 1"})
	svc := NewService(repo, testConfig())

	first, err := svc.EnableShare(context.Background(), "c1", "s1")
	if err != nil {
		t.Fatalf("enable share failed: %v", err)
	}
	second, err := svc.EnableShare(context.Background(), "c1", "s1")
	if err != nil {
		t.Fatalf("second enable failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected the active token back, got a new one")
	}
}

func TestResolveShareRejectsRevoked(t *testing.T) {
	repo := newFakeRepo(&Shot{ID: "s1", ClientID: "c1", ProjectID: "p1", Name: "Look 1"})
	svc := NewService(repo, testConfig())

	token, err := svc.EnableShare(context.Background(), "c1", "s1")
	if err != nil {
		t.Fatalf("enable share failed: %v", err)
	}
	if err := svc.DisableShare(context.Background(), "c1", "s1"); err != nil {
		t.Fatalf("disable failed: %v", err)
	}

	_, err = svc.ResolveShare(context.Background(), token)
	if !errors.Is(err, ErrShareRevoked) {
		t.Fatalf("expected ErrShareRevoked, got %v", err)
	}
}

func TestResolveShareRejectsForeignEntityToken(t *testing.T) {
	repo := newFakeRepo(&Shot{ID: "s1", ClientID: "c1", ProjectID: "p1", Name: "Look 1"})
	svc := NewService(repo, testConfig())

	token, err := tokens.GenerateShareToken(testConfig(), tokens.ShareClaims{
		ClientID: "c1",
		Entity:   "pulls",
		EntityID: "s1",
	}, time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	_, err = svc.ResolveShare(context.Background(), token)
	if !errors.Is(err, tokens.ErrInvalidShareToken) {
		t.Fatalf("expected ErrInvalidShareToken, got %v", err)
	}
}

func TestResolveShareRejectsGarbage(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	_, err := svc.ResolveShare(context.Background(), "not-a-token")
	if !errors.Is(err, tokens.ErrInvalidShareToken) {
		t.Fatalf("expected ErrInvalidShareToken, got %v", err)
	}
}
