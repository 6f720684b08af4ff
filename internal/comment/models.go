package comment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

const (
	CollectionName         = "comments"
	RequestsCollectionName = "shotRequests"
)

// Entities comments can attach to.
const (
	EntityShot    = "shots"
	EntityProject = "projects"
	EntityPull    = "pulls"
)

// Comment is a threaded note on a shot, project or pull. Body is stored as
// the raw text the author typed; rendering and sanitization happen on read.
type Comment struct {
	ID         string     `bson:"_id" json:"id"`
	ClientID   string     `bson:"clientId" json:"clientId"`
	Entity     string     `bson:"entity" json:"entity"`
	EntityID   string     `bson:"entityId" json:"entityId"`
	AuthorSub  string     `bson:"authorSub" json:"authorSub"`
	AuthorName string     `bson:"authorName" json:"authorName"`
	Body       string     `bson:"body" json:"body"`
	Mentions   []string   `bson:"mentions,omitempty" json:"mentions,omitempty"`
	Edited     bool       `bson:"edited" json:"edited"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt  *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`

	// BodyHTML is the sanitized render, populated on read, never stored.
	BodyHTML string `bson:"-" json:"bodyHtml"`
}

// ShotRequest is a crew ask attached to a shot ("need steamer", "swap talent").
type ShotRequest struct {
	ID         string     `bson:"_id" json:"id"`
	ClientID   string     `bson:"clientId" json:"clientId"`
	ShotID     string     `bson:"shotId" json:"shotId"`
	AuthorSub  string     `bson:"authorSub" json:"authorSub"`
	AuthorName string     `bson:"authorName" json:"authorName"`
	Body       string     `bson:"body" json:"body"`
	Resolved   bool       `bson:"resolved" json:"resolved"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt  *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

func ValidEntity(entity string) bool {
	switch entity {
	case EntityShot, EntityProject, EntityPull:
		return true
	}
	return false
}

func commentFromDoc(doc bson.M) (*Comment, error) {
	c := &Comment{
		ID:         store.Str(doc, "_id"),
		ClientID:   store.Str(doc, "clientId"),
		Entity:     store.Str(doc, "entity"),
		EntityID:   store.Str(doc, "entityId"),
		AuthorSub:  store.Str(doc, "authorSub"),
		AuthorName: store.Str(doc, "authorName"),
		Body:       store.Str(doc, "body"),
		Mentions:   store.StrSlice(doc, "mentions"),
		Edited:     store.Bool(doc, "edited"),
		CreatedAt:  store.Time(doc, "createdAt"),
		UpdatedAt:  store.Time(doc, "updatedAt"),
		DeletedAt:  store.TimePtr(doc, "deletedAt"),
	}
	c.BodyHTML = RenderMentions(c.Body)
	return c, nil
}

func requestFromDoc(doc bson.M) (*ShotRequest, error) {
	return &ShotRequest{
		ID:         store.Str(doc, "_id"),
		ClientID:   store.Str(doc, "clientId"),
		ShotID:     store.Str(doc, "shotId"),
		AuthorSub:  store.Str(doc, "authorSub"),
		AuthorName: store.Str(doc, "authorName"),
		Body:       store.Str(doc, "body"),
		Resolved:   store.Bool(doc, "resolved"),
		CreatedAt:  store.Time(doc, "createdAt"),
		UpdatedAt:  store.Time(doc, "updatedAt"),
		DeletedAt:  store.TimePtr(doc, "deletedAt"),
	}, nil
}
