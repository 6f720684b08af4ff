package shot

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

// Repository defines persistence operations for shots.
type Repository interface {
	ListByProject(ctx context.Context, clientID, projectID string) ([]*Shot, error)
	ListOrphans(ctx context.Context, clientID string) ([]*Shot, error)
	Get(ctx context.Context, clientID, id string) (*Shot, error)
	Create(ctx context.Context, clientID string, fields bson.M) (string, error)
	Update(ctx context.Context, clientID, id string, fields bson.M) error
	SoftDelete(ctx context.Context, clientID, id string) error
	Watch(ctx context.Context, clientID, projectID string) *store.Watch[*Shot]
}

// StoreRepository implements Repository on the tenant document store.
type StoreRepository struct {
	s *store.Store
}

func NewStoreRepository(s *store.Store) *StoreRepository {
	return &StoreRepository{s: s}
}

func (r *StoreRepository) ListByProject(ctx context.Context, clientID, projectID string) ([]*Shot, error) {
	cs := []store.Constraint{
		store.Where("projectId", store.OpEq, projectID),
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("sortOrder"),
	}
	return store.Collection(ctx, r.s, store.CollectionPath(clientID, CollectionName), cs, FromDoc)
}

// ListOrphans matches both null and "" project references; legacy records
// carry either form.
func (r *StoreRepository) ListOrphans(ctx context.Context, clientID string) ([]*Shot, error) {
	cs := []store.Constraint{
		store.Where("projectId", store.OpIn, []interface{}{nil, ""}),
		store.Where("deletedAt", store.OpEq, nil),
	}
	return store.Collection(ctx, r.s, store.CollectionPath(clientID, CollectionName), cs, FromDoc)
}

func (r *StoreRepository) Get(ctx context.Context, clientID, id string) (*Shot, error) {
	s, ok, err := store.Document(ctx, r.s, store.DocPath(clientID, CollectionName, id), FromDoc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrNotFound
	}
	return s, nil
}

func (r *StoreRepository) Create(ctx context.Context, clientID string, fields bson.M) (string, error) {
	return r.s.Create(ctx, store.CollectionPath(clientID, CollectionName), fields)
}

func (r *StoreRepository) Update(ctx context.Context, clientID, id string, fields bson.M) error {
	return r.s.Update(ctx, store.DocPath(clientID, CollectionName, id), fields)
}

func (r *StoreRepository) SoftDelete(ctx context.Context, clientID, id string) error {
	return r.s.SoftDelete(ctx, store.DocPath(clientID, CollectionName, id))
}

func (r *StoreRepository) Watch(ctx context.Context, clientID, projectID string) *store.Watch[*Shot] {
	cs := []store.Constraint{
		store.Where("projectId", store.OpEq, projectID),
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("sortOrder"),
	}
	return store.WatchCollection(ctx, r.s, store.CollectionPath(clientID, CollectionName), cs, FromDoc)
}
