// Package bfs provides breadth-first search over any id-addressed graph view,
// returning the visit order.
//
// What
//
//   - Graph is the minimal read interface: HasVertex and NeighborIDs.
//     core.BipartiteView satisfies it, so the evidence graph of a DataSet is
//     walked without building a second adjacency structure.
//   - OnVisit runs on every visited vertex; an error aborts the walk.
//     grouping.Assigner uses it to stamp group ids.
//   - WithContext makes long walks cancellable.
//
// Determinism
//
//	Neighbors are enqueued in the order NeighborIDs returns them. With a view
//	that returns sorted ids, the visit sequence is fully reproducible.
//
// Complexity (V = reachable vertices, E = reachable edges)
//
//   - Time:   O(V + E) plus the cost of NeighborIDs.
//   - Memory: O(V) for the queue and visited set.
//
// Errors
//
//   - ErrGraphNil             – nil graph.
//   - ErrStartVertexNotFound  – start id not present.
//   - ErrNeighbors            – NeighborIDs failed; wraps the graph's error.
//   - context errors are returned as-is; hook errors are wrapped with the vertex id.
package bfs
