package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shotbuilder/backend/internal/config"
	"github.com/shotbuilder/backend/internal/models"
)

// GenerateAccessToken creates a signed JWT access token for the user
func GenerateAccessToken(cfg *config.Config, u *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      u.Sub,
		"name":     u.Name,
		"email":    u.Email,
		"role":     string(u.Role),
		"clientId": u.ClientID,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// ShareClaims is the payload of a public share link token. Share tokens are
// the only credential accepted on the public pull/shot view routes.
type ShareClaims struct {
	ClientID string `json:"clientId"`
	Entity   string `json:"entity"` // "pulls" | "shots"
	EntityID string `json:"entityId"`
}

const shareScope = "share"

var ErrInvalidShareToken = errors.New("invalid share token")

// GenerateShareToken signs a public share token for a pull or shot view.
func GenerateShareToken(cfg *config.Config, sc ShareClaims, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"scope":    shareScope,
		"clientId": sc.ClientID,
		"entity":   sc.Entity,
		"entityId": sc.EntityID,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// ParseShareToken verifies a share token and returns its claims. Any token
// not carrying the share scope is rejected even when otherwise valid, so an
// access token cannot be replayed on a public route.
func ParseShareToken(cfg *config.Config, raw string) (*ShareClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidShareToken
	}
	if scope, _ := claims["scope"].(string); scope != shareScope {
		return nil, fmt.Errorf("%w: not a share token", ErrInvalidShareToken)
	}
	sc := &ShareClaims{}
	sc.ClientID, _ = claims["clientId"].(string)
	sc.Entity, _ = claims["entity"].(string)
	sc.EntityID, _ = claims["entityId"].(string)
	if sc.ClientID == "" || sc.Entity == "" || sc.EntityID == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidShareToken)
	}
	return sc, nil
}
