// Package traverse provides the shared traversal primitives that
// statistic and layout algorithms build on: breadth-first distances,
// shortest-path counting, connected components, and triangle counting.
//
// All functions treat the graph as unweighted for path purposes (every
// edge is one hop) and never mutate it. Traversal order is
// deterministic: neighbors are visited in ascending ID order.
package traverse
