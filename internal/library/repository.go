package library

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

// collection is a tenant-scoped view over one library collection. Every
// library entity shares the same shape of access: name-ordered lists with
// soft-deleted documents excluded.
type collection[T any] struct {
	store *store.Store
	name  string
	mapFn store.MapFunc[T]
}

func (c *collection[T]) path(clientID string) store.Path {
	return store.CollectionPath(clientID, c.name)
}

func (c *collection[T]) List(ctx context.Context, clientID string, extra ...store.Constraint) ([]T, error) {
	cs := append([]store.Constraint{
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("name"),
	}, extra...)
	return store.Collection(ctx, c.store, c.path(clientID), cs, c.mapFn)
}

func (c *collection[T]) Get(ctx context.Context, clientID, id string) (T, error) {
	doc, found, err := store.Document(ctx, c.store, store.DocPath(clientID, c.name, id), c.mapFn)
	if err != nil {
		var zero T
		return zero, err
	}
	if !found {
		var zero T
		return zero, store.ErrNotFound
	}
	return doc, nil
}

func (c *collection[T]) Create(ctx context.Context, clientID string, doc bson.M) (string, error) {
	return c.store.Create(ctx, c.path(clientID), doc)
}

func (c *collection[T]) Update(ctx context.Context, clientID, id string, patch bson.M) error {
	return c.store.Update(ctx, store.DocPath(clientID, c.name, id), patch)
}

func (c *collection[T]) SoftDelete(ctx context.Context, clientID, id string) error {
	return c.store.SoftDelete(ctx, store.DocPath(clientID, c.name, id))
}

func (c *collection[T]) Watch(ctx context.Context, clientID string) *store.Watch[T] {
	return store.WatchCollection(ctx, c.store, c.path(clientID), []store.Constraint{
		store.Where("deletedAt", store.OpEq, nil),
		store.OrderBy("name"),
	}, c.mapFn)
}

// Repository bundles the five library collections.
type Repository struct {
	Products        collection[*Product]
	Classifications collection[*Classification]
	Talent          collection[*Talent]
	Locations       collection[*Location]
	Crew            collection[*CrewMember]
}

func NewRepository(s *store.Store) *Repository {
	return &Repository{
		Products:        collection[*Product]{store: s, name: ProductsCollection, mapFn: productFromDoc},
		Classifications: collection[*Classification]{store: s, name: ClassificationsCollection, mapFn: classificationFromDoc},
		Talent:          collection[*Talent]{store: s, name: TalentCollection, mapFn: talentFromDoc},
		Locations:       collection[*Location]{store: s, name: LocationsCollection, mapFn: locationFromDoc},
		Crew:            collection[*CrewMember]{store: s, name: CrewCollection, mapFn: crewFromDoc},
	}
}
