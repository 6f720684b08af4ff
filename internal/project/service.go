package project

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

var ErrInvalidInput = errors.New("invalid input")

// Service wraps repository operations with the list/filter rules the
// planning screens rely on.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// ListFilter narrows the project list. Zero value = default view: active
// projects only, sorted by name.
type ListFilter struct {
	Status string // "active" (default) | "archived" | "completed" | "all"
	Query  string // free text against name and notes
	SortBy string // "name" (default) | "date"
}

// List applies the default visibility rules: status defaults to active,
// soft-deleted projects are hidden even under "all".
func (s *Service) List(ctx context.Context, clientID string, f ListFilter) ([]*Project, error) {
	status := Status(f.Status)
	all := f.Status == "all"
	if !all && !status.Valid() {
		status = StatusActive
	}
	projects, err := s.repo.List(ctx, clientID, status, all)
	if err != nil {
		return nil, err
	}
	if q := strings.TrimSpace(strings.ToLower(f.Query)); q != "" {
		filtered := projects[:0]
		for _, p := range projects {
			if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Notes), q) {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}
	if f.SortBy == "date" {
		sort.SliceStable(projects, func(i, j int) bool {
			return firstDate(projects[i]) < firstDate(projects[j])
		})
	}
	return projects, nil
}

func firstDate(p *Project) string {
	if len(p.ShootDates) == 0 {
		return "~" // sorts after any ISO date
	}
	return p.ShootDates[0]
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name       string   `json:"name" binding:"required"`
	ShootDates []string `json:"shootDates"`
	Notes      string   `json:"notes"`
	BriefURL   string   `json:"briefUrl"`
}

func (s *Service) Create(ctx context.Context, clientID, createdBy string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	fields := bson.M{
		"name":       strings.TrimSpace(req.Name),
		"status":     string(StatusActive),
		"shootDates": NormalizeShootDates(req.ShootDates),
		"notes":      req.Notes,
		"briefUrl":   req.BriefURL,
		"createdBy":  createdBy,
	}
	id, err := s.repo.Create(ctx, clientID, fields)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return s.repo.Get(ctx, clientID, id)
}

// CreateProject is a convenience form of Create used by the orphan-shot
// repair tool, which only needs a name.
func (s *Service) CreateProject(ctx context.Context, clientID, name string) (string, error) {
	p, err := s.Create(ctx, clientID, "", CreateRequest{Name: name})
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// UpdateRequest carries a partial field set; nil pointers mean "leave as is".
type UpdateRequest struct {
	Name       *string   `json:"name,omitempty"`
	ShootDates *[]string `json:"shootDates,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	BriefURL   *string   `json:"briefUrl,omitempty"`
}

func (s *Service) Update(ctx context.Context, clientID, id string, req UpdateRequest) error {
	fields := bson.M{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return ErrInvalidInput
		}
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.ShootDates != nil {
		fields["shootDates"] = NormalizeShootDates(*req.ShootDates)
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.BriefURL != nil {
		fields["briefUrl"] = *req.BriefURL
	}
	if len(fields) == 0 {
		return nil
	}
	return s.repo.Update(ctx, clientID, id, fields)
}

// SetStatus moves the project through its lifecycle.
func (s *Service) SetStatus(ctx context.Context, clientID, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidInput
	}
	return s.repo.Update(ctx, clientID, id, bson.M{"status": string(status)})
}

func (s *Service) Get(ctx context.Context, clientID, id string) (*Project, error) {
	return s.repo.Get(ctx, clientID, id)
}

func (s *Service) Delete(ctx context.Context, clientID, id string) error {
	return s.repo.SoftDelete(ctx, clientID, id)
}

func (s *Service) Restore(ctx context.Context, clientID, id string) error {
	return s.repo.Restore(ctx, clientID, id)
}

// Watch opens a live subscription over the tenant's visible projects.
func (s *Service) Watch(ctx context.Context, clientID string) *store.Watch[*Project] {
	return s.repo.Watch(ctx, clientID)
}
