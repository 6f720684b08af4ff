package pull

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

type Repository interface {
	ListByProject(ctx context.Context, clientID, projectID string) ([]*Pull, error)
	Get(ctx context.Context, clientID, id string) (*Pull, error)
	Create(ctx context.Context, clientID string, doc bson.M) (string, error)
	Update(ctx context.Context, clientID, id string, patch bson.M) error
	SoftDelete(ctx context.Context, clientID, id string) error
	FindByShareToken(ctx context.Context, clientID, token string) (*Pull, error)
	Watch(ctx context.Context, clientID, projectID string) *store.Watch[*Pull]
}

type StoreRepository struct {
	store *store.Store
}

func NewStoreRepository(s *store.Store) *StoreRepository {
	return &StoreRepository{store: s}
}

func (r *StoreRepository) path(clientID string) store.Path {
	return store.CollectionPath(clientID, CollectionName)
}

func mapPull(doc bson.M) (*Pull, error) { return FromDoc(doc) }

func (r *StoreRepository) ListByProject(ctx context.Context, clientID, projectID string) ([]*Pull, error) {
	return store.Collection(ctx, r.store, r.path(clientID), []store.Constraint{
		store.Where("projectId", store.OpEq, projectID),
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("createdAt"),
	}, mapPull)
}

func (r *StoreRepository) Get(ctx context.Context, clientID, id string) (*Pull, error) {
	p, found, err := store.Document(ctx, r.store, store.DocPath(clientID, CollectionName, id), mapPull)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (r *StoreRepository) Create(ctx context.Context, clientID string, doc bson.M) (string, error) {
	return r.store.Create(ctx, r.path(clientID), doc)
}

func (r *StoreRepository) Update(ctx context.Context, clientID, id string, patch bson.M) error {
	return r.store.Update(ctx, store.DocPath(clientID, CollectionName, id), patch)
}

func (r *StoreRepository) SoftDelete(ctx context.Context, clientID, id string) error {
	return r.store.SoftDelete(ctx, store.DocPath(clientID, CollectionName, id))
}

func (r *StoreRepository) FindByShareToken(ctx context.Context, clientID, token string) (*Pull, error) {
	pulls, err := store.Collection(ctx, r.store, r.path(clientID), []store.Constraint{
		store.Where("shareToken", store.OpEq, token),
		store.Where("shareEnabled", store.OpEq, true),
		store.Where("deletedAt", store.OpEq, nil),
		store.Limit(1),
	}, mapPull)
	if err != nil {
		return nil, err
	}
	if len(pulls) == 0 {
		return nil, store.ErrNotFound
	}
	return pulls[0], nil
}

func (r *StoreRepository) Watch(ctx context.Context, clientID, projectID string) *store.Watch[*Pull] {
	return store.WatchCollection(ctx, r.store, r.path(clientID), []store.Constraint{
		store.Where("projectId", store.OpEq, projectID),
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("createdAt"),
	}, mapPull)
}
