// Package layout computes two-dimensional node positions for drawing
// graphs.
//
// # Contract
//
// Every algorithm takes a graph plus [Options] and returns a position
// per node. Positions are rescaled into the square
// [-Scale, Scale] x [-Scale, Scale] around Center: subtract the
// centroid, divide by the largest absolute coordinate, then scale and
// offset. An empty graph yields an empty map and a single node sits
// exactly at Center; both are handled before any algorithm runs.
//
// Algorithms are deterministic. The ones that want randomness draw
// from a PRNG seeded by Options.Seed, so a fixed seed reproduces the
// exact layout.
//
// # Algorithms
//
// Geometric: [Random], [Circular], [Spiral], [Shell]. Force models:
// [FruchtermanReingold], [KamadaKawai]. Partition-based: [Bipartite],
// [Multipartite], [BFSLayers]. [Spectral] projects coordinates
// computed elsewhere and performs no eigen work of its own.
package layout
