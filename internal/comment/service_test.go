package comment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

type fakeRepo struct {
	comments map[string]*Comment
	requests map[string]*ShotRequest
	nextID   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{comments: map[string]*Comment{}, requests: map[string]*ShotRequest{}}
}

func (f *fakeRepo) ListByEntity(_ context.Context, clientID, entity, entityID string) ([]*Comment, error) {
	var out []*Comment
	for _, c := range f.comments {
		if c.ClientID == clientID && c.Entity == entity && c.EntityID == entityID && c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetComment(_ context.Context, clientID, id string) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok || c.ClientID != clientID {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) CreateComment(_ context.Context, clientID string, doc bson.M) (string, error) {
	f.nextID++
	id := fmt.Sprintf("c-%d", f.nextID)
	f.comments[id] = &Comment{
		ID:         id,
		ClientID:   clientID,
		Entity:     store.Str(doc, "entity"),
		EntityID:   store.Str(doc, "entityId"),
		AuthorSub:  store.Str(doc, "authorSub"),
		AuthorName: store.Str(doc, "authorName"),
		Body:       store.Str(doc, "body"),
		Mentions:   toStrings(doc["mentions"]),
	}
	return id, nil
}

func (f *fakeRepo) UpdateComment(_ context.Context, clientID, id string, patch bson.M) error {
	c, ok := f.comments[id]
	if !ok || c.ClientID != clientID {
		return store.ErrNotFound
	}
	if v, ok := patch["body"].(string); ok {
		c.Body = v
	}
	if v, ok := patch["edited"].(bool); ok {
		c.Edited = v
	}
	if v, ok := patch["mentions"]; ok {
		c.Mentions = toStrings(v)
	}
	return nil
}

func (f *fakeRepo) SoftDeleteComment(_ context.Context, clientID, id string) error {
	c, ok := f.comments[id]
	if !ok || c.ClientID != clientID {
		return store.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeRepo) WatchByEntity(_ context.Context, _, _, _ string) *store.Watch[*Comment] {
	return nil
}

func (f *fakeRepo) ListRequests(_ context.Context, clientID, shotID string) ([]*ShotRequest, error) {
	var out []*ShotRequest
	for _, r := range f.requests {
		if r.ClientID == clientID && r.ShotID == shotID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateRequest(_ context.Context, clientID string, doc bson.M) (string, error) {
	f.nextID++
	id := fmt.Sprintf("r-%d", f.nextID)
	f.requests[id] = &ShotRequest{
		ID:       id,
		ClientID: clientID,
		ShotID:   store.Str(doc, "shotId"),
		Body:     store.Str(doc, "body"),
	}
	return id, nil
}

func (f *fakeRepo) UpdateRequest(_ context.Context, clientID, id string, patch bson.M) error {
	r, ok := f.requests[id]
	if !ok || r.ClientID != clientID {
		return store.ErrNotFound
	}
	if v, ok := patch["resolved"].(bool); ok {
		r.Resolved = v
	}
	return nil
}

func toStrings(v interface{}) []string {
	s, _ := v.([]string)
	return s
}

func TestCreatePersistsMentions(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), "client-1", Author{Sub: "sub-1", Name: "Maya"},
		EntityShot, "shot-1", "looping in @jordan and @sam")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(c.Mentions) != 2 || c.Mentions[0] != "jordan" || c.Mentions[1] != "sam" {
		t.Errorf("mentions = %v", c.Mentions)
	}

	if _, err := svc.Create(context.Background(), "client-1", Author{Sub: "sub-1"}, "invoices", "x", "hello"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown entity err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Create(context.Background(), "client-1", Author{Sub: "sub-1"}, EntityShot, "shot-1", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank body err = %v, want ErrInvalidInput", err)
	}
}

func TestEditOnlyByAuthor(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	c, _ := svc.Create(context.Background(), "client-1", Author{Sub: "sub-1", Name: "Maya"},
		EntityShot, "shot-1", "first draft")

	if err := svc.Edit(context.Background(), "client-1", c.ID, "sub-2", "hijacked"); !errors.Is(err, ErrNotAuthor) {
		t.Errorf("foreign edit err = %v, want ErrNotAuthor", err)
	}
	if err := svc.Edit(context.Background(), "client-1", c.ID, "sub-1", "second draft @jordan"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got := repo.comments[c.ID]
	if got.Body != "second draft @jordan" || !got.Edited {
		t.Errorf("comment = %+v", got)
	}
	if len(got.Mentions) != 1 || got.Mentions[0] != "jordan" {
		t.Errorf("mentions not refreshed on edit: %v", got.Mentions)
	}
}

func TestDeleteModeration(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	c, _ := svc.Create(context.Background(), "client-1", Author{Sub: "sub-1"}, EntityShot, "shot-1", "note")

	if err := svc.Delete(context.Background(), "client-1", c.ID, "sub-2", false); !errors.Is(err, ErrNotAuthor) {
		t.Errorf("foreign delete err = %v, want ErrNotAuthor", err)
	}
	if err := svc.Delete(context.Background(), "client-1", c.ID, "sub-2", true); err != nil {
		t.Fatalf("moderator delete: %v", err)
	}
	if _, ok := repo.comments[c.ID]; ok {
		t.Error("comment still present after moderator delete")
	}
}

func TestShotRequestLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	id, err := svc.CreateRequest(context.Background(), "client-1", Author{Sub: "sub-1", Name: "Maya"}, "shot-1", "need a steamer on set")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if err := svc.SetRequestResolved(context.Background(), "client-1", id, true); err != nil {
		t.Fatalf("SetRequestResolved: %v", err)
	}
	if !repo.requests[id].Resolved {
		t.Error("request not marked resolved")
	}
	if _, err := svc.CreateRequest(context.Background(), "client-1", Author{}, "", "body"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing shot err = %v, want ErrInvalidInput", err)
	}
}
