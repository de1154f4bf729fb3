package community

// Descriptor describes one detector for discovery surfaces: CLI
// listings and the HTTP catalog endpoint.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Complexity  string `json:"complexity"`
}

// Catalog returns the descriptors for every detector this package
// implements, in stable order.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			ID:          "louvain",
			Name:        "Louvain",
			Description: "Greedy modularity optimization over aggregation levels.",
			Complexity:  "O(V*log V)",
		},
	}
}
