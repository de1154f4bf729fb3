package graph

import (
	"errors"
	"maps"
	"math"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.AddEdge]
	// when a node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrInvalidWeight is returned by [Graph.AddEdge] and
	// [Graph.UpdateEdgeWeight] when the weight is NaN or infinite.
	ErrInvalidWeight = errors.New("edge weight must be finite")

	// ErrNodeNotFound is returned by [Graph.RemoveNode] when the node
	// does not exist in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned by [Graph.RemoveEdge] and
	// [Graph.UpdateEdgeWeight] when no edge connects the two nodes.
	ErrEdgeNotFound = errors.New("edge not found")
)

// DefaultEdgeWeight is the weight assigned to edges whose wire entry
// carries no weight field.
const DefaultEdgeWeight = 1.0

// ID identifies a node. IDs are opaque: wire payloads may carry them as
// JSON strings or numbers, and numeric ids keep their literal text
// ("7" and 7 name the same node).
type ID string

// Connection is one entry in the graph's edge list. Connections are
// undirected: a Connection with Source "a" and Target "b" is the same
// edge as one with the endpoints swapped.
type Connection struct {
	Source ID
	Target ID
	Weight float64
}

// Graph is an undirected weighted graph backed by an adjacency map and
// a parallel connection list. The adjacency map gives O(1) weight
// lookups and neighbor access; the connection list preserves insertion
// order for O(E) edge enumeration.
//
// Re-adding an existing edge appends a duplicate entry to the
// connection list while the adjacency weight is overwritten in place;
// [Graph.UpdateEdgeWeight] changes a weight without growing the list.
// Read methods are lenient about unknown nodes ([Graph.Degree] returns
// 0, [Graph.Neighbors] returns nil) while [Graph.RemoveNode] is strict.
//
// The zero value is not usable - use [New]. Graph is not safe for
// concurrent mutation.
type Graph struct {
	nodes map[ID]struct{}
	conns []Connection
	adj   map[ID]map[ID]float64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[ID]struct{}),
		adj:   make(map[ID]map[ID]float64),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
// Returns ErrInvalidNodeID if the ID is empty.
func (g *Graph) AddNode(id ID) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[id]; exists {
		return nil
	}
	g.nodes[id] = struct{}{}
	g.adj[id] = make(map[ID]float64)
	return nil
}

// AddEdge adds an undirected edge, creating missing endpoints on
// demand. The edge is appended to the connection list and the adjacency
// weight is set in both directions.
//
// Adding an edge that already exists appends another connection entry
// and overwrites the adjacency weight; the duplicate entries stay in
// the list until the edge or a touched node is removed. Use
// [Graph.UpdateEdgeWeight] to change a weight in place.
//
// Returns ErrInvalidNodeID for empty endpoints and ErrInvalidWeight for
// NaN or infinite weights.
func (g *Graph) AddEdge(source, target ID, weight float64) error {
	if source == "" || target == "" {
		return ErrInvalidNodeID
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return ErrInvalidWeight
	}
	if err := g.AddNode(source); err != nil {
		return err
	}
	if err := g.AddNode(target); err != nil {
		return err
	}
	g.conns = append(g.conns, Connection{Source: source, Target: target, Weight: weight})
	g.adj[source][target] = weight
	g.adj[target][source] = weight
	return nil
}

// UpdateEdgeWeight changes the weight of an existing edge in place.
// The adjacency map is updated in both directions and the first
// matching connection entry (in either orientation) is rewritten; no
// duplicate entry is appended. Returns ErrEdgeNotFound if the edge does
// not exist and ErrInvalidWeight for NaN or infinite weights.
func (g *Graph) UpdateEdgeWeight(source, target ID, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return ErrInvalidWeight
	}
	if !g.HasEdge(source, target) {
		return ErrEdgeNotFound
	}
	g.adj[source][target] = weight
	g.adj[target][source] = weight
	for i := range g.conns {
		c := &g.conns[i]
		if (c.Source == source && c.Target == target) || (c.Source == target && c.Target == source) {
			c.Weight = weight
			break
		}
	}
	return nil
}

// RemoveNode removes a node and every incident edge: connection entries
// touching the node are dropped and neighbor adjacency rows lose their
// mirror entries. Returns ErrNodeNotFound if the node does not exist.
func (g *Graph) RemoveNode(id ID) error {
	if _, exists := g.nodes[id]; !exists {
		return ErrNodeNotFound
	}
	g.conns = slices.DeleteFunc(g.conns, func(c Connection) bool {
		return c.Source == id || c.Target == id
	})
	for neighbor := range g.adj[id] {
		delete(g.adj[neighbor], id)
	}
	delete(g.adj, id)
	delete(g.nodes, id)
	return nil
}

// RemoveEdge removes the edge between two nodes, including every
// duplicate connection entry in either orientation. Returns
// ErrEdgeNotFound if no such edge exists.
func (g *Graph) RemoveEdge(source, target ID) error {
	if !g.HasEdge(source, target) {
		return ErrEdgeNotFound
	}
	g.conns = slices.DeleteFunc(g.conns, func(c Connection) bool {
		return (c.Source == source && c.Target == target) || (c.Source == target && c.Target == source)
	})
	delete(g.adj[source], target)
	delete(g.adj[target], source)
	return nil
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id ID) bool {
	_, exists := g.nodes[id]
	return exists
}

// HasEdge reports whether an edge connects the two nodes.
func (g *Graph) HasEdge(source, target ID) bool {
	_, exists := g.adj[source][target]
	return exists
}

// Weight returns the weight of the edge between two nodes and true, or
// 0 and false if no such edge exists.
func (g *Graph) Weight(source, target ID) (float64, bool) {
	w, exists := g.adj[source][target]
	return w, exists
}

// Degree returns the sum of incident edge weights (the adjacency row
// sum). Unknown nodes have degree 0.
func (g *Graph) Degree(id ID) float64 {
	var sum float64
	for _, w := range g.adj[id] {
		sum += w
	}
	return sum
}

// NeighborCount returns the number of distinct neighbors.
// Unknown nodes have 0 neighbors.
func (g *Graph) NeighborCount(id ID) int {
	return len(g.adj[id])
}

// Neighbors returns the distinct neighbors of a node in ascending ID
// order. Returns nil for unknown nodes and nodes without edges.
func (g *Graph) Neighbors(id ID) []ID {
	row := g.adj[id]
	if len(row) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(row))
}

// Nodes returns all node IDs in ascending order.
func (g *Graph) Nodes() []ID {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Connections returns a copy of the connection list in insertion order,
// duplicates included.
func (g *Graph) Connections() []Connection {
	return slices.Clone(g.conns)
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the length of the connection list. Duplicate
// entries from re-added edges count individually.
func (g *Graph) EdgeCount() int { return len(g.conns) }
