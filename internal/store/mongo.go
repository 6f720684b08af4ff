package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoBackend implements backend against a real Mongo database. Tenant
// collections share one physical collection per entity; the clientId field is
// the partition key and every filter includes it (see compile).
type mongoBackend struct {
	db *mongo.Database
}

func (m *mongoBackend) List(ctx context.Context, p Path, cs []Constraint) ([]bson.M, error) {
	filter, opts := compile(p, cs)
	cur, err := m.db.Collection(p.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []bson.M{}
	for cur.Next(ctx) {
		var d bson.M
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *mongoBackend) GetDoc(ctx context.Context, p Path) (bson.M, error) {
	var d bson.M
	err := m.db.Collection(p.Collection).FindOne(ctx, bson.M{"_id": p.DocID, "clientId": p.ClientID}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// Subscribe opens a change stream scoped to the tenant and, for document
// paths, the single document. When the deployment does not support change
// streams (standalone server) it degrades to polling; either way each signal
// on the channel means "re-derive the result set".
func (m *mongoBackend) Subscribe(ctx context.Context, p Path) (<-chan struct{}, func(), error) {
	events := make(chan struct{}, 1)
	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	match := bson.M{"fullDocument.clientId": p.ClientID}
	if p.IsDoc() {
		match["documentKey._id"] = p.DocID
	}
	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	csOpts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := m.db.Collection(p.Collection).Watch(wctx, pipeline, csOpts)
	if err != nil {
		// standalone deployments reject change streams; fall back to polling
		go func() {
			defer close(done)
			t := time.NewTicker(2 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-wctx.Done():
					return
				case <-t.C:
					signal(events)
				}
			}
		}()
		return events, func() { cancel(); <-done }, nil
	}

	go func() {
		defer close(done)
		defer stream.Close(context.Background())
		for stream.Next(wctx) {
			signal(events)
		}
	}()
	return events, func() { cancel(); <-done }, nil
}

func (m *mongoBackend) Insert(ctx context.Context, p Path, doc bson.M) error {
	_, err := m.db.Collection(p.Collection).InsertOne(ctx, doc)
	return err
}

func (m *mongoBackend) UpdateDoc(ctx context.Context, p Path, set bson.M, unset bson.M) error {
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := m.db.Collection(p.Collection).UpdateOne(ctx, bson.M{"_id": p.DocID, "clientId": p.ClientID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// signal performs a non-blocking send; a pending event already means
// "re-derive", coalescing is fine.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
