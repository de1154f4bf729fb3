package layout

// Descriptor describes one layout algorithm for discovery surfaces:
// CLI listings and the HTTP catalog endpoint. Requires names
// statistics that must be computed first and handed in through
// Options.
type Descriptor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Complexity  string   `json:"complexity"`
	Seeded      bool     `json:"seeded,omitempty"`
	Requires    []string `json:"requires,omitempty"`
}

// Catalog returns the descriptors for every layout this package
// implements, in stable order.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			ID:          "random",
			Name:        "Random",
			Description: "Uniform random scatter, reproducible by seed.",
			Complexity:  "O(V)",
			Seeded:      true,
		},
		{
			ID:          "circular",
			Name:        "Circular",
			Description: "Nodes evenly spaced on a single circle.",
			Complexity:  "O(V)",
		},
		{
			ID:          "spiral",
			Name:        "Spiral",
			Description: "Nodes wound outward along an Archimedean spiral.",
			Complexity:  "O(V)",
		},
		{
			ID:          "shell",
			Name:        "Shell",
			Description: "Concentric circles from an ordered node partition.",
			Complexity:  "O(V)",
		},
		{
			ID:          "spectral",
			Name:        "Spectral",
			Description: "Projection of precomputed Laplacian coordinates.",
			Complexity:  "O(V)",
			Requires:    []string{"laplacian"},
		},
		{
			ID:          "fruchterman_reingold",
			Name:        "Fruchterman-Reingold",
			Description: "Force-directed layout with linear cooling.",
			Complexity:  "O(k*V^2)",
			Seeded:      true,
		},
		{
			ID:          "kamada_kawai",
			Name:        "Kamada-Kawai",
			Description: "Spring-energy minimization over BFS distances.",
			Complexity:  "O(V^2 + k*V^2)",
		},
		{
			ID:          "bipartite",
			Name:        "Bipartite",
			Description: "Two facing columns from a bipartition.",
			Complexity:  "O(V+E)",
		},
		{
			ID:          "multipartite",
			Name:        "Multipartite",
			Description: "Parallel columns from an ordered node partition.",
			Complexity:  "O(V)",
		},
		{
			ID:          "bfs_layers",
			Name:        "BFS Layers",
			Description: "Concentric rings by hop distance from a root node.",
			Complexity:  "O(V+E)",
		},
	}
}
