package project

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

// Repository defines persistence operations for projects.
type Repository interface {
	List(ctx context.Context, clientID string, status Status, includeAllStatuses bool) ([]*Project, error)
	Get(ctx context.Context, clientID, id string) (*Project, error)
	Create(ctx context.Context, clientID string, fields bson.M) (string, error)
	Update(ctx context.Context, clientID, id string, fields bson.M) error
	SoftDelete(ctx context.Context, clientID, id string) error
	Restore(ctx context.Context, clientID, id string) error
	Watch(ctx context.Context, clientID string) *store.Watch[*Project]
}

// StoreRepository implements Repository on the tenant document store.
type StoreRepository struct {
	s *store.Store
}

func NewStoreRepository(s *store.Store) *StoreRepository {
	return &StoreRepository{s: s}
}

// List excludes soft-deleted projects unconditionally; "all" widens the
// status filter, never the deletion filter.
func (r *StoreRepository) List(ctx context.Context, clientID string, status Status, includeAllStatuses bool) ([]*Project, error) {
	cs := []store.Constraint{
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("name"),
	}
	if !includeAllStatuses {
		cs = append(cs, store.Where("status", store.OpEq, string(status)))
	}
	return store.Collection(ctx, r.s, store.CollectionPath(clientID, CollectionName), cs, FromDoc)
}

func (r *StoreRepository) Get(ctx context.Context, clientID, id string) (*Project, error) {
	p, ok, err := store.Document(ctx, r.s, store.DocPath(clientID, CollectionName, id), FromDoc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
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

func (r *StoreRepository) Restore(ctx context.Context, clientID, id string) error {
	return r.s.Restore(ctx, store.DocPath(clientID, CollectionName, id))
}

func (r *StoreRepository) Watch(ctx context.Context, clientID string) *store.Watch[*Project] {
	cs := []store.Constraint{
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("name"),
	}
	return store.WatchCollection(ctx, r.s, store.CollectionPath(clientID, CollectionName), cs, FromDoc)
}
