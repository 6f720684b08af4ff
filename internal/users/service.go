package users

import (
	"context"
	"fmt"

	"github.com/shotbuilder/backend/internal/models"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// UpsertFromClaims creates or updates a user using OIDC claims map. The
// custom claims "role" and "clientId" carry the application role and tenant.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	roleStr, _ := claims["role"].(string)
	clientID, _ := claims["clientId"].(string)
	if sub == "" {
		return nil, nil
	}
	role := models.Role(roleStr)
	if roleStr != "" && !role.Valid() {
		role = models.RoleViewer
	}
	u := &models.User{
		Sub:      sub,
		Email:    email,
		Name:     name,
		Role:     role,
		ClientID: clientID,
	}
	return s.repo.UpsertBySub(ctx, u)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}

// ListMembers returns all users of a tenant.
func (s *Service) ListMembers(ctx context.Context, clientID string) ([]*models.User, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// AssignRole sets a user's application role. Admin-gated at the handler layer.
func (s *Service) AssignRole(ctx context.Context, sub string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	return s.repo.SetRole(ctx, sub, role)
}
