// Package community assigns graph nodes to densely connected groups.
//
// The package exposes a small strategy surface: [Detector] is the
// interface, [Louvain] the built-in modularity-optimizing
// implementation, and [Modularity] scores an arbitrary partition
// independently of how it was produced. Detection is pure: the input
// graph is never mutated and assignments are derived values, not graph
// state.
//
// Node processing order and tie-breaking are fixed so that repeated
// runs over the same graph return the same partition. Nodes are swept
// in ascending id order and, when two candidate communities offer the
// same gain, the lowest community id wins.
package community
