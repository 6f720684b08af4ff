package pull

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

const CollectionName = "pulls"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusFulfilled Status = "fulfilled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusFulfilled:
		return true
	}
	return false
}

// Item is one requested line on a pull sheet.
type Item struct {
	ProductID string `bson:"productId" json:"productId"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	Size      string `bson:"size,omitempty" json:"size,omitempty"`
	Color     string `bson:"color,omitempty" json:"color,omitempty"`
	Notes     string `bson:"notes,omitempty" json:"notes,omitempty"`
	Status    string `bson:"status,omitempty" json:"status,omitempty"`
}

// ExportSettings controls the printable sheet layout.
type ExportSettings struct {
	PageSize    string `bson:"pageSize,omitempty" json:"pageSize,omitempty"`
	Orientation string `bson:"orientation,omitempty" json:"orientation,omitempty"`
	Columns     int    `bson:"columns,omitempty" json:"columns,omitempty"`
}

type Pull struct {
	ID           string         `bson:"_id" json:"id"`
	ClientID     string         `bson:"clientId" json:"clientId"`
	ProjectID    string         `bson:"projectId" json:"projectId"`
	Title        string         `bson:"title" json:"title"`
	Status       Status         `bson:"status" json:"status"`
	ShotIDs      []string       `bson:"shotIds,omitempty" json:"shotIds,omitempty"`
	Items        []Item         `bson:"items,omitempty" json:"items,omitempty"`
	ShareEnabled bool           `bson:"shareEnabled" json:"shareEnabled"`
	ShareToken   string         `bson:"shareToken,omitempty" json:"shareToken,omitempty"`
	Export       ExportSettings `bson:"export,omitempty" json:"export,omitempty"`
	CreatedBy    string         `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
	DeletedAt    *time.Time     `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// FromDoc maps a raw document, keeping whatever is readable.
func FromDoc(doc bson.M) (*Pull, error) {
	p := &Pull{
		ID:           store.Str(doc, "_id"),
		ClientID:     store.Str(doc, "clientId"),
		ProjectID:    store.Str(doc, "projectId"),
		Title:        store.Str(doc, "title"),
		Status:       Status(store.Str(doc, "status")),
		ShotIDs:      store.StrSlice(doc, "shotIds"),
		ShareEnabled: store.Bool(doc, "shareEnabled"),
		ShareToken:   store.Str(doc, "shareToken"),
		CreatedBy:    store.Str(doc, "createdBy"),
		CreatedAt:    store.Time(doc, "createdAt"),
		UpdatedAt:    store.Time(doc, "updatedAt"),
		DeletedAt:    store.TimePtr(doc, "deletedAt"),
	}
	if !p.Status.Valid() {
		p.Status = StatusDraft
	}
	for _, raw := range store.DocSlice(doc, "items") {
		p.Items = append(p.Items, Item{
			ProductID: store.Str(raw, "productId"),
			Quantity:  store.Int(raw, "quantity"),
			Size:      store.Str(raw, "size"),
			Color:     store.Str(raw, "color"),
			Notes:     store.Str(raw, "notes"),
			Status:    store.Str(raw, "status"),
		})
	}
	if exp, ok := doc["export"].(bson.M); ok {
		p.Export = ExportSettings{
			PageSize:    store.Str(exp, "pageSize"),
			Orientation: store.Str(exp, "orientation"),
			Columns:     store.Int(exp, "columns"),
		}
	}
	return p, nil
}
