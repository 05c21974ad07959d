package bfs

import (
	"context"
	"errors"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartVertexNotFound is returned when the start key is absent.
	ErrStartVertexNotFound = errors.New("bfs: start vertex not found")

	// ErrGraphNil is returned if a nil graph is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrNeighbors is returned when fetching neighbors from the graph fails.
	ErrNeighbors = errors.New("bfs: neighbor iteration error")
)

// Graph is the read surface BFS needs. Keys are opaque strings;
// core.BipartiteView is the production implementation.
type Graph interface {
	HasVertex(key string) bool
	NeighborIDs(key string) ([]string, error)
}

// Option configures a walk.
type Option func(*options)

type options struct {
	ctx     context.Context
	onVisit func(key string, depth int) error
}

// WithContext checks ctx before each visit; cancellation aborts the walk
// with the context error.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithOnVisit registers a callback run on every visit, in visit order.
// A returned error aborts the walk.
func WithOnVisit(fn func(key string, depth int) error) Option {
	return func(o *options) {
		if fn != nil {
			o.onVisit = fn
		}
	}
}
