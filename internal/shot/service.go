package shot

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/config"
	"github.com/shotbuilder/backend/internal/store"
	"github.com/shotbuilder/backend/internal/tokens"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrShareRevoked = errors.New("sharing is disabled for this shot")
)

// Service wraps repository operations for shots.
type Service struct {
	repo Repository
	cfg  *config.Config
}

func NewService(r Repository, cfg *config.Config) *Service {
	return &Service{repo: r, cfg: cfg}
}

// CreateRequest defines shot creation inputs.
type CreateRequest struct {
	ProjectID   string   `json:"projectId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	LocationID  string   `json:"locationId"`
	TalentIDs   []string `json:"talentIds"`
	ProductIDs  []string `json:"productIds"`
	ImageURL    string   `json:"imageUrl"`
	SortOrder   int      `json:"sortOrder"`
}

func (s *Service) Create(ctx context.Context, clientID string, req CreateRequest) (*Shot, error) {
	if strings.TrimSpace(req.Name) == "" || req.ProjectID == "" {
		return nil, ErrInvalidInput
	}
	fields := bson.M{
		"projectId":   req.ProjectID,
		"name":        strings.TrimSpace(req.Name),
		"description": req.Description,
		"type":        req.Type,
		"date":        req.Date,
		"locationId":  req.LocationID,
		"talentIds":   req.TalentIDs,
		"productIds":  req.ProductIDs,
		"imageUrl":    req.ImageURL,
		"sortOrder":   req.SortOrder,
	}
	id, err := s.repo.Create(ctx, clientID, fields)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, clientID, id)
}

// UpdateRequest carries a partial field set; nil pointers mean "leave as is".
type UpdateRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Type        *string   `json:"type,omitempty"`
	Date        *string   `json:"date,omitempty"`
	LocationID  *string   `json:"locationId,omitempty"`
	TalentIDs   *[]string `json:"talentIds,omitempty"`
	ProductIDs  *[]string `json:"productIds,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	FocalX      *float64  `json:"focalX,omitempty"`
	FocalY      *float64  `json:"focalY,omitempty"`
	SortOrder   *int      `json:"sortOrder,omitempty"`
}

func (s *Service) Update(ctx context.Context, clientID, id string, req UpdateRequest) error {
	fields := bson.M{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return ErrInvalidInput
		}
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.Date != nil {
		fields["date"] = *req.Date
	}
	if req.LocationID != nil {
		fields["locationId"] = *req.LocationID
	}
	if req.TalentIDs != nil {
		fields["talentIds"] = *req.TalentIDs
	}
	if req.ProductIDs != nil {
		fields["productIds"] = *req.ProductIDs
	}
	if req.ImageURL != nil {
		fields["imageUrl"] = *req.ImageURL
	}
	if req.FocalX != nil {
		fields["focalX"] = *req.FocalX
	}
	if req.FocalY != nil {
		fields["focalY"] = *req.FocalY
	}
	if req.SortOrder != nil {
		fields["sortOrder"] = *req.SortOrder
	}
	if len(fields) == 0 {
		return nil
	}
	return s.repo.Update(ctx, clientID, id, fields)
}

func (s *Service) Get(ctx context.Context, clientID, id string) (*Shot, error) {
	return s.repo.Get(ctx, clientID, id)
}

func (s *Service) ListByProject(ctx context.Context, clientID, projectID string) ([]*Shot, error) {
	return s.repo.ListByProject(ctx, clientID, projectID)
}

func (s *Service) Delete(ctx context.Context, clientID, id string) error {
	return s.repo.SoftDelete(ctx, clientID, id)
}

// Watch opens a live subscription over a project's shots.
func (s *Service) Watch(ctx context.Context, clientID, projectID string) *store.Watch[*Shot] {
	return s.repo.Watch(ctx, clientID, projectID)
}

// EnableShare issues a share token for the shot and stores it on the document.
// Calling it again returns the existing token while one is active.
func (s *Service) EnableShare(ctx context.Context, clientID, id string) (string, error) {
	sh, err := s.repo.Get(ctx, clientID, id)
	if err != nil {
		return "", err
	}
	if sh.ShareEnabled && sh.ShareToken != "" {
		return sh.ShareToken, nil
	}
	token, err := tokens.GenerateShareToken(s.cfg, tokens.ShareClaims{
		ClientID: clientID,
		Entity:   CollectionName,
		EntityID: id,
	}, s.cfg.JWT.ShareTokenTTL)
	if err != nil {
		return "", err
	}
	if err := s.repo.Update(ctx, clientID, id, bson.M{"shareEnabled": true, "shareToken": token}); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) DisableShare(ctx context.Context, clientID, id string) error {
	return s.repo.Update(ctx, clientID, id, bson.M{"shareEnabled": false, "shareToken": ""})
}

// ResolveShare verifies a share token and loads the shot it names. The token
// alone carries the tenant, no session is required.
func (s *Service) ResolveShare(ctx context.Context, raw string) (*Shot, error) {
	claims, err := tokens.ParseShareToken(s.cfg, raw)
	if err != nil {
		return nil, err
	}
	if claims.Entity != CollectionName {
		return nil, tokens.ErrInvalidShareToken
	}
	sh, err := s.repo.Get(ctx, claims.ClientID, claims.EntityID)
	if err != nil {
		return nil, err
	}
	if !sh.ShareEnabled {
		return nil, ErrShareRevoked
	}
	return sh, nil
}
