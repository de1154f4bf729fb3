package layout

import (
	"math"
	"sort"

	"github.com/gandergraph/gander/pkg/graph"
)

// Shell places ordered groups of nodes on concentric circles, the
// first group innermost. An explicit Options.Groups partition is used
// as given; otherwise nodes are grouped by neighbor count with the
// best-connected shell innermost. A singleton first group collapses
// its circle to the exact center.
func Shell(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	groups, err := resolveGroups(g, opts, func() [][]graph.ID { return groupByDegree(g, true) })
	if err != nil {
		return nil, err
	}

	pos := placeRings(groups)
	rescale(pos, opts)
	emit(report, 1)
	return pos, nil
}

// placeRings spaces each group evenly around its own circle. Radii
// grow in equal steps; a singleton first group sits at radius zero.
// Successive rings are rotated against each other so nodes do not
// stack along one ray.
func placeRings(groups [][]graph.ID) map[graph.ID]graph.Point {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	pos := make(map[graph.ID]graph.Point, total)

	bump := 1 / float64(len(groups))
	radius := bump
	if len(groups) > 0 && len(groups[0]) == 1 {
		radius = 0
	}

	for si, group := range groups {
		if len(group) == 0 {
			radius += bump
			continue
		}
		offset := float64(si) * math.Pi * bump
		step := 2 * math.Pi / float64(len(group))
		for j, id := range group {
			theta := step*float64(j) + offset
			pos[id] = graph.Point{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
		}
		radius += bump
	}
	return pos
}

// groupByDegree buckets nodes by distinct neighbor count, ascending or
// descending, with ids ascending inside each bucket.
func groupByDegree(g *graph.Graph, descending bool) [][]graph.ID {
	buckets := make(map[int][]graph.ID)
	for _, id := range g.Nodes() {
		d := g.NeighborCount(id)
		buckets[d] = append(buckets[d], id)
	}

	degrees := make([]int, 0, len(buckets))
	for d := range buckets {
		degrees = append(degrees, d)
	}
	sort.Ints(degrees)
	if descending {
		for i, j := 0, len(degrees)-1; i < j; i, j = i+1, j-1 {
			degrees[i], degrees[j] = degrees[j], degrees[i]
		}
	}

	groups := make([][]graph.ID, 0, len(degrees))
	for _, d := range degrees {
		groups = append(groups, buckets[d])
	}
	return groups
}
