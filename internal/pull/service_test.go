package pull

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/config"
	"github.com/shotbuilder/backend/internal/store"
	"github.com/shotbuilder/backend/internal/tokens"
)

type fakeRepo struct {
	pulls  map[string]*Pull
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{pulls: map[string]*Pull{}}
}

func (f *fakeRepo) ListByProject(_ context.Context, clientID, projectID string) ([]*Pull, error) {
	var out []*Pull
	for _, p := range f.pulls {
		if p.ClientID == clientID && p.ProjectID == projectID && p.DeletedAt == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, clientID, id string) (*Pull, error) {
	p, ok := f.pulls[id]
	if !ok || p.ClientID != clientID {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) Create(_ context.Context, clientID string, doc bson.M) (string, error) {
	f.nextID++
	id := fmt.Sprintf("pull-%d", f.nextID)
	p := &Pull{
		ID:        id,
		ClientID:  clientID,
		ProjectID: store.Str(doc, "projectId"),
		Title:     store.Str(doc, "title"),
		Status:    Status(store.Str(doc, "status")),
		CreatedBy: store.Str(doc, "createdBy"),
	}
	f.pulls[id] = p
	return id, nil
}

func (f *fakeRepo) Update(_ context.Context, clientID, id string, patch bson.M) error {
	p, ok := f.pulls[id]
	if !ok || p.ClientID != clientID {
		return store.ErrNotFound
	}
	if v, ok := patch["title"].(string); ok {
		p.Title = v
	}
	if v, ok := patch["status"].(string); ok {
		p.Status = Status(v)
	}
	if v, ok := patch["shareEnabled"].(bool); ok {
		p.ShareEnabled = v
	}
	if v, ok := patch["shareToken"].(string); ok {
		p.ShareToken = v
	}
	if v, ok := patch["items"].([]bson.M); ok {
		p.Items = nil
		for _, raw := range v {
			p.Items = append(p.Items, Item{
				ProductID: store.Str(raw, "productId"),
				Quantity:  store.Int(raw, "quantity"),
				Status:    store.Str(raw, "status"),
			})
		}
	}
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, clientID, id string) error {
	p, ok := f.pulls[id]
	if !ok || p.ClientID != clientID {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	return nil
}

func (f *fakeRepo) FindByShareToken(_ context.Context, clientID, token string) (*Pull, error) {
	for _, p := range f.pulls {
		if p.ClientID == clientID && p.ShareToken == token && p.ShareEnabled && p.DeletedAt == nil {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeRepo) Watch(_ context.Context, _, _ string) *store.Watch[*Pull] {
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ShareTokenTTL = time.Hour
	return cfg
}

func TestCreateDefaultsToDraft(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	p, err := svc.Create(context.Background(), "client-1", "sub-1", CreateRequest{
		ProjectID: "proj-1",
		Title:     "  Spring pull  ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != StatusDraft {
		t.Errorf("status = %q, want draft", p.Status)
	}
	if p.Title != "Spring pull" {
		t.Errorf("title = %q, want trimmed", p.Title)
	}

	if _, err := svc.Create(context.Background(), "client-1", "sub-1", CreateRequest{ProjectID: "proj-1", Title: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank title err = %v, want ErrInvalidInput", err)
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())
	p, _ := svc.Create(context.Background(), "client-1", "sub-1", CreateRequest{ProjectID: "proj-1", Title: "Pull"})

	if err := svc.SetStatus(context.Background(), "client-1", p.ID, StatusSubmitted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := svc.SetStatus(context.Background(), "client-1", p.ID, Status("shipped")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown status err = %v, want ErrInvalidInput", err)
	}
}

func TestSetItemStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())
	p, _ := svc.Create(context.Background(), "client-1", "sub-1", CreateRequest{ProjectID: "proj-1", Title: "Pull"})
	repo.pulls[p.ID].Items = []Item{
		{ProductID: "prod-1", Quantity: 2},
		{ProductID: "prod-2", Quantity: 1},
	}

	if err := svc.SetItemStatus(context.Background(), "client-1", p.ID, "prod-2", "pulled"); err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}
	got := repo.pulls[p.ID].Items
	if got[0].Status != "" || got[1].Status != "pulled" {
		t.Errorf("items = %+v, want only prod-2 marked pulled", got)
	}

	if err := svc.SetItemStatus(context.Background(), "client-1", p.ID, "prod-9", "pulled"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown product err = %v, want ErrNotFound", err)
	}
}

func TestShareTokenRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())
	p, _ := svc.Create(context.Background(), "client-1", "sub-1", CreateRequest{ProjectID: "proj-1", Title: "Pull"})

	token, err := svc.EnableShare(context.Background(), "client-1", p.ID)
	if err != nil {
		t.Fatalf("EnableShare: %v", err)
	}
	if token == "" {
		t.Fatal("EnableShare returned empty token")
	}

	again, err := svc.EnableShare(context.Background(), "client-1", p.ID)
	if err != nil {
		t.Fatalf("EnableShare again: %v", err)
	}
	if again != token {
		t.Error("second EnableShare should return the active token")
	}

	resolved, err := svc.ResolveShare(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveShare: %v", err)
	}
	if resolved.ID != p.ID {
		t.Errorf("resolved id = %q, want %q", resolved.ID, p.ID)
	}
}

func TestResolveShareRejectsRevokedAndForeignTokens(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())
	p, _ := svc.Create(context.Background(), "client-1", "sub-1", CreateRequest{ProjectID: "proj-1", Title: "Pull"})

	token, err := svc.EnableShare(context.Background(), "client-1", p.ID)
	if err != nil {
		t.Fatalf("EnableShare: %v", err)
	}
	if err := svc.DisableShare(context.Background(), "client-1", p.ID); err != nil {
		t.Fatalf("DisableShare: %v", err)
	}
	if _, err := svc.ResolveShare(context.Background(), token); !errors.Is(err, ErrShareRevoked) {
		t.Errorf("revoked share err = %v, want ErrShareRevoked", err)
	}

	shotToken, err := tokens.GenerateShareToken(testConfig(), tokens.ShareClaims{
		ClientID: "client-1",
		Entity:   "shots",
		EntityID: p.ID,
	}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateShareToken: %v", err)
	}
	if _, err := svc.ResolveShare(context.Background(), shotToken); !errors.Is(err, tokens.ErrInvalidShareToken) {
		t.Errorf("foreign entity err = %v, want ErrInvalidShareToken", err)
	}
}
