package stats

// Scope tells whether a statistic produces one value per node or one
// value for the whole graph.
type Scope string

const (
	// ScopeNode marks statistics returning a value per node.
	ScopeNode Scope = "node"
	// ScopeGraph marks statistics returning a single graph-level value.
	ScopeGraph Scope = "graph"
)

// Descriptor describes one registered statistic for discovery surfaces:
// CLI listings and the HTTP catalog endpoint.
type Descriptor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Complexity  string   `json:"complexity"`
	Scope       Scope    `json:"scope"`
	Weighted    bool     `json:"weighted"`
	Requires    []string `json:"requires,omitempty"`
}

// Catalog returns the descriptors for every statistic this package
// implements, in stable order.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			ID:          "degree",
			Name:        "Degree",
			Description: "Sum of incident edge weights per node.",
			Complexity:  "O(V+E)",
			Scope:       ScopeNode,
			Weighted:    true,
		},
		{
			ID:          "closeness",
			Name:        "Closeness Centrality",
			Description: "Inverse average hop distance to reachable nodes.",
			Complexity:  "O(V*(V+E))",
			Scope:       ScopeNode,
		},
		{
			ID:          "betweenness",
			Name:        "Betweenness Centrality",
			Description: "Fraction of shortest paths passing through each node.",
			Complexity:  "O(V*E)",
			Scope:       ScopeNode,
		},
		{
			ID:          "clustering",
			Name:        "Clustering Coefficient",
			Description: "How close each node's neighborhood is to a clique.",
			Complexity:  "O(V*d^2)",
			Scope:       ScopeNode,
		},
		{
			ID:          "eigenvector",
			Name:        "Eigenvector Centrality",
			Description: "Influence scores from the dominant adjacency eigenvector, by power iteration.",
			Complexity:  "O(k*(V+E))",
			Scope:       ScopeNode,
			Weighted:    true,
		},
		{
			ID:          "ego_density",
			Name:        "Ego Density",
			Description: "Density of the subgraph induced by each node and its neighbors.",
			Complexity:  "O(V*d^2)",
			Scope:       ScopeNode,
		},
		{
			ID:          "cliques",
			Name:        "Maximal Cliques",
			Description: "Every maximal clique, via Bron-Kerbosch with pivoting.",
			Complexity:  "O(3^(V/3))",
			Scope:       ScopeGraph,
		},
		{
			ID:          "laplacian",
			Name:        "Laplacian Coordinates",
			Description: "Approximate 2D spectral coordinates from the graph Laplacian.",
			Complexity:  "O(k*V^2)",
			Scope:       ScopeNode,
			Weighted:    true,
		},
		{
			ID:          "density",
			Name:        "Density",
			Description: "Fraction of possible edges present in the graph.",
			Complexity:  "O(1)",
			Scope:       ScopeGraph,
		},
		{
			ID:          "diameter",
			Name:        "Diameter",
			Description: "Longest shortest path in hops over reachable pairs.",
			Complexity:  "O(V*(V+E))",
			Scope:       ScopeGraph,
		},
		{
			ID:          "average_path_length",
			Name:        "Average Path Length",
			Description: "Mean hop distance over reachable node pairs.",
			Complexity:  "O(V*(V+E))",
			Scope:       ScopeGraph,
		},
		{
			ID:          "average_clustering",
			Name:        "Average Clustering",
			Description: "Mean local clustering coefficient over all nodes.",
			Complexity:  "O(V*d^2)",
			Scope:       ScopeGraph,
		},
		{
			ID:          "average_degree",
			Name:        "Average Degree",
			Description: "Mean weighted degree over all nodes.",
			Complexity:  "O(V+E)",
			Scope:       ScopeGraph,
			Weighted:    true,
		},
		{
			ID:          "components",
			Name:        "Connected Components",
			Description: "Component count with per-node membership.",
			Complexity:  "O(V+E)",
			Scope:       ScopeGraph,
		},
	}
}
