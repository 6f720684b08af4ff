package store

import (
	"context"
	"sync"

	"github.com/shotbuilder/backend/pkg/metrics"
)

// Snapshot is one atomically re-derived result set delivered by a watch.
// Err carries query failures as state; an error snapshot is the last
// delivery, the watch stops and closes its channel after publishing it.
type Snapshot[T any] struct {
	Docs         []T
	Err          error
	MissingIndex bool
}

// Watch is a live subscription handle. Close must be called on every exit
// path; re-subscribing with a new path requires closing the previous handle
// first, otherwise two deliveries race into the same consumer.
type Watch[T any] struct {
	C <-chan Snapshot[T]

	collection string
	cancel     context.CancelFunc
	teardown   func()
	done       chan struct{}
	closeOnce  sync.Once
	quiet      bool
}

// Close synchronously detaches the underlying subscription. Safe to call more
// than once.
func (w *Watch[T]) Close() {
	w.closeOnce.Do(func() {
		if w.quiet {
			return
		}
		w.cancel()
		w.teardown()
		<-w.done
		metrics.WatchesClosed.WithLabelValues(w.collection).Inc()
	})
}

// WatchCollection opens a live subscription over a tenant collection. Each
// delivery is the full, freshly mapped result list. A not-ready path yields a
// quiet watch: one empty snapshot, a closed channel, and no database call.
func WatchCollection[T any](ctx context.Context, s *Store, p Path, cs []Constraint, mapFn MapFunc[T]) *Watch[T] {
	if !p.Ready() {
		return quietWatch[T]()
	}

	wctx, cancel := context.WithCancel(ctx)
	out := make(chan Snapshot[T], 1)
	done := make(chan struct{})

	events, teardown, err := s.b.Subscribe(wctx, p)
	if err != nil {
		cancel()
		ch := make(chan Snapshot[T], 1)
		ch <- Snapshot[T]{Err: err, MissingIndex: IsMissingIndex(err)}
		close(ch)
		return &Watch[T]{C: ch, quiet: true}
	}
	metrics.WatchesOpened.WithLabelValues(p.Collection).Inc()

	deliver := func() bool {
		docs, err := Collection(wctx, s, p, cs, mapFn)
		snap := Snapshot[T]{Docs: docs}
		if err != nil {
			snap = Snapshot[T]{Err: err, MissingIndex: IsMissingIndex(err)}
		}
		select {
		case out <- snap:
		case <-wctx.Done():
			return false
		}
		return snap.Err == nil
	}

	go func() {
		defer close(done)
		defer close(out)
		// initial full result set before any change event
		if !deliver() {
			return
		}
		for {
			select {
			case <-wctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				if !deliver() {
					return
				}
			}
		}
	}()

	return &Watch[T]{C: out, collection: p.Collection, cancel: cancel, teardown: teardown, done: done}
}

// WatchDocument is the single-document variant: each delivery carries zero or
// one mapped record.
func WatchDocument[T any](ctx context.Context, s *Store, p Path, mapFn MapFunc[T]) *Watch[T] {
	if !p.Ready() || !p.IsDoc() {
		return quietWatch[T]()
	}
	return WatchCollection(ctx, s, p, []Constraint{Where("_id", OpEq, p.DocID)}, mapFn)
}

func quietWatch[T any]() *Watch[T] {
	ch := make(chan Snapshot[T], 1)
	ch <- Snapshot[T]{Docs: []T{}}
	close(ch)
	return &Watch[T]{C: ch, quiet: true}
}
