package pull

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
	ErrShareRevoked = errors.New("sharing is disabled for this pull")
)

type Service struct {
	repo Repository
	cfg  *config.Config
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

type CreateRequest struct {
	ProjectID string         `json:"projectId" binding:"required"`
	Title     string         `json:"title" binding:"required"`
	ShotIDs   []string       `json:"shotIds"`
	Items     []Item         `json:"items"`
	Export    ExportSettings `json:"export"`
}

func (s *Service) Create(ctx context.Context, clientID, createdBy string, req CreateRequest) (*Pull, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.ProjectID == "" {
		return nil, ErrInvalidInput
	}
	doc := bson.M{
		"projectId": req.ProjectID,
		"title":     title,
		"status":    string(StatusDraft),
		"createdBy": createdBy,
	}
	if len(req.ShotIDs) > 0 {
		doc["shotIds"] = req.ShotIDs
	}
	if len(req.Items) > 0 {
		doc["items"] = itemsToDocs(req.Items)
	}
	if req.Export != (ExportSettings{}) {
		doc["export"] = exportToDoc(req.Export)
	}
	id, err := s.repo.Create(ctx, clientID, doc)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, clientID, id)
}

type UpdateRequest struct {
	Title   *string         `json:"title"`
	ShotIDs *[]string       `json:"shotIds"`
	Items   *[]Item         `json:"items"`
	Export  *ExportSettings `json:"export"`
}

func (s *Service) Update(ctx context.Context, clientID, id string, req UpdateRequest) error {
	patch := bson.M{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return ErrInvalidInput
		}
		patch["title"] = title
	}
	if req.ShotIDs != nil {
		patch["shotIds"] = *req.ShotIDs
	}
	if req.Items != nil {
		patch["items"] = itemsToDocs(*req.Items)
	}
	if req.Export != nil {
		patch["export"] = exportToDoc(*req.Export)
	}
	if len(patch) == 0 {
		return nil
	}
	return s.repo.Update(ctx, clientID, id, patch)
}

// SetStatus moves a pull through draft, submitted and fulfilled.
func (s *Service) SetStatus(ctx context.Context, clientID, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidInput
	}
	return s.repo.Update(ctx, clientID, id, bson.M{"status": string(status)})
}

// SetItemStatus updates one line item, matched by product id.
func (s *Service) SetItemStatus(ctx context.Context, clientID, id, productID, status string) error {
	p, err := s.repo.Get(ctx, clientID, id)
	if err != nil {
		return err
	}
	found := false
	for i := range p.Items {
		if p.Items[i].ProductID == productID {
			p.Items[i].Status = status
			found = true
		}
	}
	if !found {
		return store.ErrNotFound
	}
	return s.repo.Update(ctx, clientID, id, bson.M{"items": itemsToDocs(p.Items)})
}

func (s *Service) Get(ctx context.Context, clientID, id string) (*Pull, error) {
	return s.repo.Get(ctx, clientID, id)
}

func (s *Service) ListByProject(ctx context.Context, clientID, projectID string) ([]*Pull, error) {
	return s.repo.ListByProject(ctx, clientID, projectID)
}

func (s *Service) Delete(ctx context.Context, clientID, id string) error {
	return s.repo.SoftDelete(ctx, clientID, id)
}

func (s *Service) Watch(ctx context.Context, clientID, projectID string) *store.Watch[*Pull] {
	return s.repo.Watch(ctx, clientID, projectID)
}

// EnableShare issues a share token for the pull and stores it on the document.
// Calling it again returns the existing token while one is active.
func (s *Service) EnableShare(ctx context.Context, clientID, id string) (string, error) {
	p, err := s.repo.Get(ctx, clientID, id)
	if err != nil {
		return "", err
	}
	if p.ShareEnabled && p.ShareToken != "" {
		return p.ShareToken, nil
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

// ResolveShare verifies a share token and loads the pull it names. The token
// alone carries the tenant, no session is required.
func (s *Service) ResolveShare(ctx context.Context, raw string) (*Pull, error) {
	claims, err := tokens.ParseShareToken(s.cfg, raw)
	if err != nil {
		return nil, err
	}
	if claims.Entity != CollectionName {
		return nil, tokens.ErrInvalidShareToken
	}
	p, err := s.repo.Get(ctx, claims.ClientID, claims.EntityID)
	if err != nil {
		return nil, err
	}
	if !p.ShareEnabled {
		return nil, ErrShareRevoked
	}
	return p, nil
}

func itemsToDocs(items []Item) []bson.M {
	out := make([]bson.M, 0, len(items))
	for _, it := range items {
		out = append(out, bson.M{
			"productId": it.ProductID,
			"quantity":  it.Quantity,
			"size":      it.Size,
			"color":     it.Color,
			"notes":     it.Notes,
			"status":    it.Status,
		})
	}
	return out
}

func exportToDoc(e ExportSettings) bson.M {
	return bson.M{
		"pageSize":    e.PageSize,
		"orientation": e.Orientation,
		"columns":     e.Columns,
	}
}
