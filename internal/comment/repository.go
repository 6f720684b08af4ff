package comment

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

type Repository interface {
	ListByEntity(ctx context.Context, clientID, entity, entityID string) ([]*Comment, error)
	GetComment(ctx context.Context, clientID, id string) (*Comment, error)
	CreateComment(ctx context.Context, clientID string, doc bson.M) (string, error)
	UpdateComment(ctx context.Context, clientID, id string, patch bson.M) error
	SoftDeleteComment(ctx context.Context, clientID, id string) error
	WatchByEntity(ctx context.Context, clientID, entity, entityID string) *store.Watch[*Comment]

	ListRequests(ctx context.Context, clientID, shotID string) ([]*ShotRequest, error)
	CreateRequest(ctx context.Context, clientID string, doc bson.M) (string, error)
	UpdateRequest(ctx context.Context, clientID, id string, patch bson.M) error
}

type StoreRepository struct {
	store *store.Store
}

func NewStoreRepository(s *store.Store) *StoreRepository {
	return &StoreRepository{store: s}
}

func (r *StoreRepository) ListByEntity(ctx context.Context, clientID, entity, entityID string) ([]*Comment, error) {
	return store.Collection(ctx, r.store, store.CollectionPath(clientID, CollectionName), []store.Constraint{
		store.Where("entity", store.OpEq, entity),
		store.Where("entityId", store.OpEq, entityID),
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("createdAt"),
	}, commentFromDoc)
}

func (r *StoreRepository) GetComment(ctx context.Context, clientID, id string) (*Comment, error) {
	c, found, err := store.Document(ctx, r.store, store.DocPath(clientID, CollectionName, id), commentFromDoc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (r *StoreRepository) CreateComment(ctx context.Context, clientID string, doc bson.M) (string, error) {
	return r.store.Create(ctx, store.CollectionPath(clientID, CollectionName), doc)
}

func (r *StoreRepository) UpdateComment(ctx context.Context, clientID, id string, patch bson.M) error {
	return r.store.Update(ctx, store.DocPath(clientID, CollectionName, id), patch)
}

func (r *StoreRepository) SoftDeleteComment(ctx context.Context, clientID, id string) error {
	return r.store.SoftDelete(ctx, store.DocPath(clientID, CollectionName, id))
}

func (r *StoreRepository) WatchByEntity(ctx context.Context, clientID, entity, entityID string) *store.Watch[*Comment] {
	return store.WatchCollection(ctx, r.store, store.CollectionPath(clientID, CollectionName), []store.Constraint{
		store.Where("entity", store.OpEq, entity),
		store.Where("entityId", store.OpEq, entityID),
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("createdAt"),
	}, commentFromDoc)
}

func (r *StoreRepository) ListRequests(ctx context.Context, clientID, shotID string) ([]*ShotRequest, error) {
	return store.Collection(ctx, r.store, store.CollectionPath(clientID, RequestsCollectionName), []store.Constraint{
		store.Where("shotId", store.OpEq, shotID),
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("createdAt"),
	}, requestFromDoc)
}

func (r *StoreRepository) CreateRequest(ctx context.Context, clientID string, doc bson.M) (string, error) {
	return r.store.Create(ctx, store.CollectionPath(clientID, RequestsCollectionName), doc)
}

func (r *StoreRepository) UpdateRequest(ctx context.Context, clientID, id string, patch bson.M) error {
	return r.store.Update(ctx, store.DocPath(clientID, RequestsCollectionName, id), patch)
}
