package engine

import (
	"github.com/gandergraph/gander/pkg/community"
	"github.com/gandergraph/gander/pkg/layout"
	"github.com/gandergraph/gander/pkg/stats"
)

// Algorithm is one catalog row, flattened across modules for the
// discovery surfaces. Scope is set for statistics, Seeded for
// layouts.
type Algorithm struct {
	Module      string   `json:"module"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Complexity  string   `json:"complexity"`
	Scope       string   `json:"scope,omitempty"`
	Weighted    bool     `json:"weighted,omitempty"`
	Seeded      bool     `json:"seeded,omitempty"`
	Requires    []string `json:"requires,omitempty"`
}

// Algorithms returns every algorithm the engine dispatches, in stable
// order: statistics, then layouts, then community detectors. Each row
// corresponds to one registered compute function.
func Algorithms() []Algorithm {
	var out []Algorithm
	for _, d := range stats.Catalog() {
		out = append(out, Algorithm{
			Module:      "stats",
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Complexity:  d.Complexity,
			Scope:       string(d.Scope),
			Weighted:    d.Weighted,
			Requires:    d.Requires,
		})
	}
	for _, d := range layout.Catalog() {
		out = append(out, Algorithm{
			Module:      "layout",
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Complexity:  d.Complexity,
			Seeded:      d.Seeded,
			Requires:    d.Requires,
		})
	}
	for _, d := range community.Catalog() {
		out = append(out, Algorithm{
			Module:      "community",
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Complexity:  d.Complexity,
		})
	}
	return out
}
