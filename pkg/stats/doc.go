// Package stats implements the per-node and graph-level statistic
// algorithms: degree, closeness, betweenness, clustering, eigenvector
// centrality, ego density, maximal cliques, Laplacian spectral
// coordinates, and the graph-level summary measures built on them.
//
// # Conventions
//
// Every algorithm is a pure function over a [graph.Graph]: no caller
// state is touched and repeated calls return identical results.
// Per-node algorithms accept an optional node subset; a nil subset
// means all nodes in the graph. Requested ids that are not in the
// graph are handled leniently and score zero rather than failing.
//
// Long-running algorithms accept a report callback that receives
// completion fractions in [0,1] at roughly one-percent granularity.
// A nil callback disables reporting. Iterative algorithms take
// explicit iteration budgets and tolerances so termination is always
// bounded; see [DefaultMaxIterations] and [DefaultTolerance].
//
// Path-based measures (closeness, betweenness, diameter, average path
// length) treat every edge as one hop. Weight-aware measures (degree,
// eigenvector centrality) sum edge weights.
package stats
