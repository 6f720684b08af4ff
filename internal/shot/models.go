package shot

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

// CollectionName is the tenant collection shots live in.
const CollectionName = "shots"

// Shot is one planned capture. An empty ProjectID marks an orphan: a
// data-integrity gap, not a valid unassigned state.
type Shot struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"clientId"`
	ProjectID    string     `json:"projectId"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Type         string     `json:"type,omitempty"`
	Date         string     `json:"date,omitempty"` // YYYY-MM-DD, same contract as project shoot dates
	LocationID   string     `json:"locationId,omitempty"`
	TalentIDs    []string   `json:"talentIds,omitempty"`
	ProductIDs   []string   `json:"productIds,omitempty"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	FocalX       float64    `json:"focalX,omitempty"` // 0..1 relative focal point for export crops
	FocalY       float64    `json:"focalY,omitempty"`
	SortOrder    int        `json:"sortOrder"`
	ShareEnabled bool       `json:"shareEnabled"`
	ShareToken   string     `json:"shareToken,omitempty"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Orphaned reports whether the shot lost its project reference.
func (s *Shot) Orphaned() bool { return s.ProjectID == "" }

// FromDoc maps a raw document into a Shot.
func FromDoc(d bson.M) (*Shot, error) {
	return &Shot{
		ID:           store.Str(d, "_id"),
		ClientID:     store.Str(d, "clientId"),
		ProjectID:    store.Str(d, "projectId"),
		Name:         store.Str(d, "name"),
		Description:  store.Str(d, "description"),
		Type:         store.Str(d, "type"),
		Date:         store.Str(d, "date"),
		LocationID:   store.Str(d, "locationId"),
		TalentIDs:    store.StrSlice(d, "talentIds"),
		ProductIDs:   store.StrSlice(d, "productIds"),
		ImageURL:     store.Str(d, "imageUrl"),
		FocalX:       store.Float(d, "focalX"),
		FocalY:       store.Float(d, "focalY"),
		SortOrder:    store.Int(d, "sortOrder"),
		ShareEnabled: store.Bool(d, "shareEnabled"),
		ShareToken:   store.Str(d, "shareToken"),
		DeletedAt:    store.TimePtr(d, "deletedAt"),
		CreatedAt:    store.Time(d, "createdAt"),
		UpdatedAt:    store.Time(d, "updatedAt"),
	}, nil
}
