package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shotbuilder/backend/pkg/metrics"
)

// backend abstracts the document database so the read/watch contract can be
// exercised in tests without a running server. The only real implementation
// is mongoBackend.
type backend interface {
	List(ctx context.Context, p Path, cs []Constraint) ([]bson.M, error)
	GetDoc(ctx context.Context, p Path) (bson.M, error)
	// Subscribe delivers a signal per relevant change; the returned func tears
	// the subscription down. Must not be called for a not-ready path.
	Subscribe(ctx context.Context, p Path) (<-chan struct{}, func(), error)
	Insert(ctx context.Context, p Path, doc bson.M) error
	UpdateDoc(ctx context.Context, p Path, set bson.M, unset bson.M) error
}

// Store is the tenant-scoped document access layer. All domain repositories
// read and write through it so timestamps, soft delete and error translation
// stay uniform.
type Store struct {
	b backend
}

// New wraps a Mongo database.
func New(db *mongo.Database) *Store {
	return &Store{b: &mongoBackend{db: db}}
}

func newWithBackend(b backend) *Store { return &Store{b: b} }

// MapFunc converts a raw document into its typed shape.
type MapFunc[T any] func(bson.M) (T, error)

// Collection performs a one-shot list read. A not-ready path returns an empty
// slice and no error without touching the database.
func Collection[T any](ctx context.Context, s *Store, p Path, cs []Constraint, mapFn MapFunc[T]) ([]T, error) {
	if !p.Ready() {
		return []T{}, nil
	}
	raw, err := s.b.List(ctx, p, cs)
	if err != nil {
		return nil, err
	}
	return mapAll(raw, mapFn)
}

// Document performs a one-shot single-document read. A not-ready path or an
// absent document returns (zero, false, nil). A document that exists but
// fails mapping is a mapping error, not a missing document.
func Document[T any](ctx context.Context, s *Store, p Path, mapFn MapFunc[T]) (T, bool, error) {
	var zero T
	if !p.Ready() || !p.IsDoc() {
		return zero, false, nil
	}
	raw, err := s.b.GetDoc(ctx, p)
	if err != nil {
		return zero, false, err
	}
	if raw == nil {
		return zero, false, nil
	}
	v, err := mapFn(raw)
	if err != nil {
		return zero, false, joinMapping(err)
	}
	return v, true, nil
}

// Create inserts a document, stamping _id (when absent), clientId and the
// server-side createdAt/updatedAt pair. Returns the document id.
func (s *Store) Create(ctx context.Context, p Path, fields bson.M) (string, error) {
	id := p.DocID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	doc := bson.M{"_id": id, "clientId": p.ClientID, "createdAt": now, "updatedAt": now}
	for k, v := range fields {
		if k == "_id" || k == "clientId" || k == "createdAt" || k == "updatedAt" {
			continue
		}
		doc[k] = v
	}
	if err := s.b.Insert(ctx, Path{ClientID: p.ClientID, Collection: p.Collection, DocID: id}, doc); err != nil {
		metrics.WritesTotal.WithLabelValues(p.Collection, "error").Inc()
		return "", err
	}
	metrics.WritesTotal.WithLabelValues(p.Collection, "ok").Inc()
	return id, nil
}

// Update applies a partial field merge. updatedAt is always refreshed;
// identity fields cannot be rewritten through this path.
func (s *Store) Update(ctx context.Context, p Path, fields bson.M) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		if k == "_id" || k == "clientId" || k == "createdAt" {
			continue
		}
		set[k] = v
	}
	err := s.b.UpdateDoc(ctx, p, set, nil)
	s.countWrite(p, err)
	return err
}

// SoftDelete marks the document deleted by setting only the deletion
// timestamp. Nothing is physically removed.
func (s *Store) SoftDelete(ctx context.Context, p Path) error {
	err := s.b.UpdateDoc(ctx, p, bson.M{"deletedAt": time.Now().UTC()}, nil)
	s.countWrite(p, err)
	return err
}

// Restore clears a soft delete and refreshes updatedAt.
func (s *Store) Restore(ctx context.Context, p Path) error {
	err := s.b.UpdateDoc(ctx, p, bson.M{"updatedAt": time.Now().UTC()}, bson.M{"deletedAt": ""})
	s.countWrite(p, err)
	return err
}

func (s *Store) countWrite(p Path, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.WritesTotal.WithLabelValues(p.Collection, outcome).Inc()
}

func mapAll[T any](raw []bson.M, mapFn MapFunc[T]) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		v, err := mapFn(r)
		if err != nil {
			return nil, joinMapping(err)
		}
		out = append(out, v)
	}
	return out, nil
}
