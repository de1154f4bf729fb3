// Package graph provides the undirected weighted graph model and its
// canonical wire format.
//
// # Overview
//
// Gander analyzes node-link graphs: centrality statistics, community
// detection, and coordinate layouts all operate on the same structure.
// This package provides that structure, an adjacency-map [Graph] with a
// parallel connection list, plus [Data], the JSON boundary format that
// crosses process and worker boundaries.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode], and edges
// with [Graph.AddEdge]. Edge endpoints are created on demand, so a graph
// can be built from an edge list alone:
//
//	g := graph.New()
//	g.AddEdge("a", "b", 1)
//	g.AddEdge("b", "c", 2.5)
//
// Query structure with [Graph.Neighbors], [Graph.Degree], [Graph.Weight],
// and related methods. Mutation methods are strict about existing
// elements ([Graph.RemoveNode] and [Graph.RemoveEdge] fail on unknown
// ids) while read methods are lenient (unknown ids read as empty).
//
// # Wire Format
//
// Graphs cross boundaries as a simple node-link JSON document:
//
//	{
//	  "nodes": ["a", "b", "c"],
//	  "edges": [{"source": "a", "target": "b", "weight": 2}]
//	}
//
// Decoding is deliberately tolerant: node entries may be strings,
// numbers, or {"id": ...} objects; edge endpoints may use source/target
// or from/to; a missing weight defaults to 1; absent or malformed
// collections decode as empty. Unknown fields are ignored. See [Data].
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. The compute
// layers never share one: each task reconstructs a private graph from
// its own [Data] copy, so read-only parallel access never needs locks.
//
// # Related Packages
//
// The [traverse] subpackage provides the shared traversal primitives
// (BFS distances, shortest-path counting, components) that statistic
// and layout algorithms build on.
//
// [traverse]: github.com/gandergraph/gander/pkg/graph/traverse
package graph
