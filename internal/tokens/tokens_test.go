package tokens

import (
	"testing"
	"time"

	"github.com/shotbuilder/backend/internal/config"
	"github.com/shotbuilder/backend/internal/models"
)

func testCfg() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "unit-test-secret-0123456789abcdef"}}
}

func TestGenerateAccessTokenCarriesRoleClaims(t *testing.T) {
	cfg := testCfg()
	u := &models.User{Sub: "s1", Name: "Pat", Email: "p@x", Role: models.RoleProducer, ClientID: "client-a"}
	tok, err := GenerateAccessToken(cfg, u, time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if tok == "" {
		t.Fatalf("empty token")
	}
}

func TestShareTokenRoundTrip(t *testing.T) {
	cfg := testCfg()
	raw, err := GenerateShareToken(cfg, ShareClaims{ClientID: "client-a", Entity: "pull", EntityID: "p-1"}, time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	sc, err := ParseShareToken(cfg, raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.ClientID != "client-a" || sc.Entity != "pull" || sc.EntityID != "p-1" {
		t.Fatalf("unexpected claims: %+v", sc)
	}
}

func TestShareTokenRejectsAccessToken(t *testing.T) {
	cfg := testCfg()
	u := &models.User{Sub: "s1", Role: models.RoleAdmin, ClientID: "client-a"}
	at, err := GenerateAccessToken(cfg, u, time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseShareToken(cfg, at); err == nil {
		t.Fatalf("access token must not be accepted as a share token")
	}
}

func TestShareTokenRejectsExpired(t *testing.T) {
	cfg := testCfg()
	raw, err := GenerateShareToken(cfg, ShareClaims{ClientID: "c", Entity: "shot", EntityID: "s"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseShareToken(cfg, raw); err == nil {
		t.Fatalf("expired share token accepted")
	}
}
