package layout

import (
	"github.com/gandergraph/gander/pkg/errors"
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/graph/traverse"
)

// Bipartite places two node sets as facing columns. The sets come
// from Options.Groups when given (exactly two), otherwise from a
// greedy two-coloring walked in ascending id order. Odd cycles cannot
// be two-colored; the coloring keeps the first color reached and the
// layout degrades gracefully rather than failing.
func Bipartite(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	if len(opts.Groups) != 0 && len(opts.Groups) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "bipartite layout needs exactly two groups, got %d", len(opts.Groups))
	}
	groups, err := resolveGroups(g, opts, func() [][]graph.ID { return twoColoring(g) })
	if err != nil {
		return nil, err
	}

	pos := placeColumns(groups)
	rescale(pos, opts)
	emit(report, 1)
	return pos, nil
}

// Multipartite places ordered groups as parallel columns, first group
// leftmost. Without an explicit partition, nodes are grouped by
// neighbor count ascending, one column per distinct value.
func Multipartite(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	groups, err := resolveGroups(g, opts, func() [][]graph.ID { return groupByDegree(g, false) })
	if err != nil {
		return nil, err
	}

	pos := placeColumns(groups)
	rescale(pos, opts)
	emit(report, 1)
	return pos, nil
}

// BFSLayers arranges nodes on concentric rings by hop distance from a
// root node: the root alone on ring zero sits at the exact center,
// each BFS layer forms the next ring out, and nodes unreachable from
// the root share a final outermost ring. Options.Root picks the root;
// empty selects the lowest node id. An explicit Options.Groups
// partition overrides the BFS layering entirely.
func BFSLayers(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	root := opts.Root
	if root == "" {
		root = g.Nodes()[0]
	} else if !g.HasNode(root) {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "root node %q is not in the graph", string(root))
	}

	groups, err := resolveGroups(g, opts, func() [][]graph.ID { return bfsLayerGroups(g, root) })
	if err != nil {
		return nil, err
	}

	pos := placeRings(groups)
	rescale(pos, opts)
	emit(report, 1)
	return pos, nil
}

// placeColumns puts each group on its own vertical line, columns in
// group order left to right, members evenly spaced top to bottom. A
// singleton column centers on the axis.
func placeColumns(groups [][]graph.ID) map[graph.ID]graph.Point {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	pos := make(map[graph.ID]graph.Point, total)

	for ci, group := range groups {
		x := float64(ci)
		for j, id := range group {
			y := float64(j) - float64(len(group)-1)/2
			pos[id] = graph.Point{X: x, Y: y}
		}
	}
	return pos
}

// twoColoring splits nodes into two sides by alternating BFS colors,
// visiting components in ascending id order.
func twoColoring(g *graph.Graph) [][]graph.ID {
	ids := g.Nodes()
	color := make(map[graph.ID]int, len(ids))

	for _, start := range ids {
		if _, ok := color[start]; ok {
			continue
		}
		color[start] = 0
		queue := []graph.ID{start}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, nb := range g.Neighbors(u) {
				if _, ok := color[nb]; !ok {
					color[nb] = 1 - color[u]
					queue = append(queue, nb)
				}
			}
		}
	}

	sides := make([][]graph.ID, 2)
	for _, id := range ids {
		sides[color[id]] = append(sides[color[id]], id)
	}
	return sides
}

// bfsLayerGroups buckets nodes by hop distance from root, with any
// unreachable nodes forming one final group.
func bfsLayerGroups(g *graph.Graph, root graph.ID) [][]graph.ID {
	dist := traverse.BFSFrom(g, root)

	maxDist := 0
	for _, d := range dist {
		if d > maxDist {
			maxDist = d
		}
	}

	layers := make([][]graph.ID, maxDist+1)
	var unreachable []graph.ID
	for _, id := range g.Nodes() {
		if d, ok := dist[id]; ok {
			layers[d] = append(layers[d], id)
		} else {
			unreachable = append(unreachable, id)
		}
	}
	if len(unreachable) > 0 {
		layers = append(layers, unreachable)
	}
	return layers
}
