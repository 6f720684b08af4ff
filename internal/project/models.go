package project

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

// CollectionName is the tenant collection projects live in.
const CollectionName = "projects"

// Status is the project lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusArchived || s == StatusCompleted
}

// Project is a shoot-planning project. ShootDates hold normalized
// YYYY-MM-DD strings; entries that never parsed are preserved verbatim.
type Project struct {
	ID         string     `json:"id"`
	ClientID   string     `json:"clientId"`
	Name       string     `json:"name"`
	Status     Status     `json:"status"`
	ShootDates []string   `json:"shootDates"`
	Notes      string     `json:"notes,omitempty"`
	BriefURL   string     `json:"briefUrl,omitempty"`
	CreatedBy  string     `json:"createdBy,omitempty"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Deleted reports whether the project is soft-deleted.
func (p *Project) Deleted() bool { return p.DeletedAt != nil }

// FromDoc maps a raw document into a Project. Field-level decode problems
// degrade to zero values; they never fail the whole record.
func FromDoc(d bson.M) (*Project, error) {
	st := Status(store.Str(d, "status"))
	if !st.Valid() {
		st = StatusActive
	}
	return &Project{
		ID:         store.Str(d, "_id"),
		ClientID:   store.Str(d, "clientId"),
		Name:       store.Str(d, "name"),
		Status:     st,
		ShootDates: store.StrSlice(d, "shootDates"),
		Notes:      store.Str(d, "notes"),
		BriefURL:   store.Str(d, "briefUrl"),
		CreatedBy:  store.Str(d, "createdBy"),
		DeletedAt:  store.TimePtr(d, "deletedAt"),
		CreatedAt:  store.Time(d, "createdAt"),
		UpdatedAt:  store.Time(d, "updatedAt"),
	}, nil
}
