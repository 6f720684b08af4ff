package library

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// --- products ---

type ProductRequest struct {
	Name             string   `json:"name" binding:"required"`
	SKU              string   `json:"sku"`
	ClassificationID string   `json:"classificationId"`
	Colors           []string `json:"colors"`
	Sizes            []string `json:"sizes"`
	ImageURL         string   `json:"imageUrl"`
}

// ListProducts hides archived products unless includeArchived is set.
func (s *Service) ListProducts(ctx context.Context, clientID string, includeArchived bool) ([]*Product, error) {
	if includeArchived {
		return s.repo.Products.List(ctx, clientID)
	}
	return s.repo.Products.List(ctx, clientID, store.Where("archived", store.OpNe, true))
}

func (s *Service) GetProduct(ctx context.Context, clientID, id string) (*Product, error) {
	return s.repo.Products.Get(ctx, clientID, id)
}

func (s *Service) CreateProduct(ctx context.Context, clientID string, req ProductRequest) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	id, err := s.repo.Products.Create(ctx, clientID, bson.M{
		"name":             name,
		"sku":              req.SKU,
		"classificationId": req.ClassificationID,
		"colors":           req.Colors,
		"sizes":            req.Sizes,
		"imageUrl":         req.ImageURL,
		"archived":         false,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Products.Get(ctx, clientID, id)
}

func (s *Service) UpdateProduct(ctx context.Context, clientID, id string, req ProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ErrInvalidInput
	}
	return s.repo.Products.Update(ctx, clientID, id, bson.M{
		"name":             name,
		"sku":              req.SKU,
		"classificationId": req.ClassificationID,
		"colors":           req.Colors,
		"sizes":            req.Sizes,
		"imageUrl":         req.ImageURL,
	})
}

// SetProductArchived flips the archive flag without touching anything else.
func (s *Service) SetProductArchived(ctx context.Context, clientID, id string, archived bool) error {
	return s.repo.Products.Update(ctx, clientID, id, bson.M{"archived": archived})
}

func (s *Service) DeleteProduct(ctx context.Context, clientID, id string) error {
	return s.repo.Products.SoftDelete(ctx, clientID, id)
}

func (s *Service) WatchProducts(ctx context.Context, clientID string) *store.Watch[*Product] {
	return s.repo.Products.Watch(ctx, clientID)
}

// --- classifications ---

func (s *Service) ListClassifications(ctx context.Context, clientID string) ([]*Classification, error) {
	return s.repo.Classifications.List(ctx, clientID)
}

func (s *Service) CreateClassification(ctx context.Context, clientID, name string) (*Classification, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	id, err := s.repo.Classifications.Create(ctx, clientID, bson.M{"name": name})
	if err != nil {
		return nil, err
	}
	return s.repo.Classifications.Get(ctx, clientID, id)
}

func (s *Service) RenameClassification(ctx context.Context, clientID, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidInput
	}
	return s.repo.Classifications.Update(ctx, clientID, id, bson.M{"name": name})
}

// DeleteClassification soft-deletes the family and clears the reference from
// any product still pointing at it, so product lists never render a dangling
// family name.
func (s *Service) DeleteClassification(ctx context.Context, clientID, id string) error {
	if err := s.repo.Classifications.SoftDelete(ctx, clientID, id); err != nil {
		return err
	}
	products, err := s.repo.Products.List(ctx, clientID, store.Where("classificationId", store.OpEq, id))
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := s.repo.Products.Update(ctx, clientID, p.ID, bson.M{"classificationId": ""}); err != nil {
			return err
		}
	}
	return nil
}

// --- talent ---

type TalentRequest struct {
	Name     string `json:"name" binding:"required"`
	Agency   string `json:"agency"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photoUrl"`
	Notes    string `json:"notes"`
}

func (s *Service) ListTalent(ctx context.Context, clientID string) ([]*Talent, error) {
	return s.repo.Talent.List(ctx, clientID)
}

func (s *Service) CreateTalent(ctx context.Context, clientID string, req TalentRequest) (*Talent, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	id, err := s.repo.Talent.Create(ctx, clientID, bson.M{
		"name":     name,
		"agency":   req.Agency,
		"email":    req.Email,
		"phone":    req.Phone,
		"photoUrl": req.PhotoURL,
		"notes":    req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Talent.Get(ctx, clientID, id)
}

func (s *Service) UpdateTalent(ctx context.Context, clientID, id string, req TalentRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ErrInvalidInput
	}
	return s.repo.Talent.Update(ctx, clientID, id, bson.M{
		"name":     name,
		"agency":   req.Agency,
		"email":    req.Email,
		"phone":    req.Phone,
		"photoUrl": req.PhotoURL,
		"notes":    req.Notes,
	})
}

func (s *Service) DeleteTalent(ctx context.Context, clientID, id string) error {
	return s.repo.Talent.SoftDelete(ctx, clientID, id)
}

// --- locations ---

type LocationRequest struct {
	Name     string  `json:"name" binding:"required"`
	Address  Address `json:"address"`
	PhotoURL string  `json:"photoUrl"`
	Notes    string  `json:"notes"`
}

func (s *Service) ListLocations(ctx context.Context, clientID string) ([]*Location, error) {
	return s.repo.Locations.List(ctx, clientID)
}

func (s *Service) CreateLocation(ctx context.Context, clientID string, req LocationRequest) (*Location, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	id, err := s.repo.Locations.Create(ctx, clientID, bson.M{
		"name":     name,
		"address":  addressToDoc(req.Address),
		"photoUrl": req.PhotoURL,
		"notes":    req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Locations.Get(ctx, clientID, id)
}

func (s *Service) UpdateLocation(ctx context.Context, clientID, id string, req LocationRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ErrInvalidInput
	}
	return s.repo.Locations.Update(ctx, clientID, id, bson.M{
		"name":     name,
		"address":  addressToDoc(req.Address),
		"photoUrl": req.PhotoURL,
		"notes":    req.Notes,
	})
}

func (s *Service) DeleteLocation(ctx context.Context, clientID, id string) error {
	return s.repo.Locations.SoftDelete(ctx, clientID, id)
}

// --- crew ---

type CrewRequest struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (s *Service) ListCrew(ctx context.Context, clientID string) ([]*CrewMember, error) {
	return s.repo.Crew.List(ctx, clientID)
}

func (s *Service) CreateCrew(ctx context.Context, clientID string, req CrewRequest) (*CrewMember, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	id, err := s.repo.Crew.Create(ctx, clientID, bson.M{
		"name":  name,
		"role":  req.Role,
		"email": req.Email,
		"phone": req.Phone,
		"notes": req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Crew.Get(ctx, clientID, id)
}

func (s *Service) UpdateCrew(ctx context.Context, clientID, id string, req CrewRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ErrInvalidInput
	}
	return s.repo.Crew.Update(ctx, clientID, id, bson.M{
		"name":  name,
		"role":  req.Role,
		"email": req.Email,
		"phone": req.Phone,
		"notes": req.Notes,
	})
}

func (s *Service) DeleteCrew(ctx context.Context, clientID, id string) error {
	return s.repo.Crew.SoftDelete(ctx, clientID, id)
}

func addressToDoc(a Address) bson.M {
	return bson.M{
		"street":  a.Street,
		"city":    a.City,
		"state":   a.State,
		"zip":     a.Zip,
		"country": a.Country,
	}
}
