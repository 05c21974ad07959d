package bfs

import (
	"context"
	"fmt"
)

// queueItem pairs a vertex key with its depth.
type queueItem struct {
	key   string
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph   Graph
	opts    options
	queue   []queueItem
	head    int
	visited map[string]struct{}
	order   []string
}

// BFS walks g breadth-first from start and returns the visited keys in
// visit order. Neighbors are expanded in the order NeighborIDs returns them.
//
// Errors: ErrGraphNil, ErrStartVertexNotFound, ErrNeighbors wrapping the
// graph error, the context error on cancellation, or the OnVisit error.
//
// Complexity: O(V + E).
func BFS(g Graph, start string, opts ...Option) ([]string, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := options{
		ctx:     context.Background(),
		onVisit: func(string, int) error { return nil },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !g.HasVertex(start) {
		return nil, fmt.Errorf("%w: %q", ErrStartVertexNotFound, start)
	}

	w := &walker{graph: g, opts: o, visited: make(map[string]struct{})}
	w.enqueue(start, 0)
	err := w.loop()
	return w.order, err
}

func (w *walker) enqueue(key string, d int) {
	w.visited[key] = struct{}{}
	w.queue = append(w.queue, queueItem{key: key, depth: d})
}

// loop drains the queue. The head index avoids re-slicing the backing array.
func (w *walker) loop() error {
	for w.head < len(w.queue) {
		if err := w.opts.ctx.Err(); err != nil {
			return err
		}
		item := w.queue[w.head]
		w.head++

		w.order = append(w.order, item.key)
		if err := w.opts.onVisit(item.key, item.depth); err != nil {
			return fmt.Errorf("bfs: visit %q: %w", item.key, err)
		}
		neighbors, err := w.graph.NeighborIDs(item.key)
		if err != nil {
			return fmt.Errorf("%w: neighbors of %q: %w", ErrNeighbors, item.key, err)
		}
		for _, nbr := range neighbors {
			if _, seen := w.visited[nbr]; !seen {
				w.enqueue(nbr, item.depth+1)
			}
		}
	}
	return nil
}
