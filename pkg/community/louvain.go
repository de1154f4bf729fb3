package community

import (
	"sort"

	"github.com/gandergraph/gander/pkg/graph"
)

// Tuning defaults for [Louvain]. The gain threshold matches the usual
// reference implementations; levels and passes are caps, not targets.
const (
	DefaultMaxLevels = 10
	DefaultMaxPasses = 100
	DefaultMinGain   = 1e-7
)

// Louvain detects communities by greedy modularity optimization. Each
// level sweeps all nodes in ascending id order, moving a node to the
// neighboring community with the largest modularity gain (lowest
// community id wins exact ties, and a move must beat staying put by
// more than MinGain). Once a level stabilizes, communities collapse
// into super-nodes and the next level repeats on the coarser graph.
// Optimization stops when a level produces no moves, the partition
// stops shrinking, or MaxLevels is reached.
//
// The zero value selects all defaults.
type Louvain struct {
	MaxLevels int     // cap on aggregation levels
	MaxPasses int     // cap on sweeps within one level
	MinGain   float64 // minimum modularity improvement to accept a move
}

func (s Louvain) withDefaults() Louvain {
	if s.MaxLevels <= 0 {
		s.MaxLevels = DefaultMaxLevels
	}
	if s.MaxPasses <= 0 {
		s.MaxPasses = DefaultMaxPasses
	}
	if s.MinGain <= 0 {
		s.MinGain = DefaultMinGain
	}
	return s
}

// Detect implements [Detector]. Community ids in the result are
// contiguous from zero; the reported modularity is computed on the
// input graph with [Modularity]'s formula, so scoring the returned
// assignment independently reproduces it.
func (s Louvain) Detect(g *graph.Graph, report func(float64)) Result {
	s = s.withDefaults()
	ids := g.Nodes()
	n := len(ids)
	result := Result{Communities: make(map[graph.ID]int, n)}
	if n == 0 {
		emit(report, 1)
		return result
	}

	base := levelFromGraph(g, ids)

	// membership[i] is the current super-node of original node i; it
	// composes the per-level assignments as the hierarchy coarsens.
	membership := make([]int, n)
	for i := range membership {
		membership[i] = i
	}

	totalPasses := s.MaxLevels * s.MaxPasses
	donePasses := 0
	passDone := func() {
		donePasses++
		emit(report, float64(donePasses)/float64(totalPasses))
	}

	lv := base
	for levelIdx := 0; levelIdx < s.MaxLevels; levelIdx++ {
		comm, moved := s.movePhase(lv, passDone)
		if moved == 0 {
			break
		}

		// Renumber surviving communities contiguously, ascending by
		// old id, then fold this level into the global assignment.
		used := make([]int, 0, len(comm))
		seen := make(map[int]bool, len(comm))
		for _, c := range comm {
			if !seen[c] {
				seen[c] = true
				used = append(used, c)
			}
		}
		sort.Ints(used)
		renum := make(map[int]int, len(used))
		for rank, c := range used {
			renum[c] = rank
		}

		member := make([]int, len(comm))
		for i, c := range comm {
			member[i] = renum[c]
		}
		for v := range membership {
			membership[v] = member[membership[v]]
		}

		if len(used) == 1 || len(used) == len(lv.adj) {
			break
		}
		lv = lv.aggregate(member, len(used))
	}

	numCommunities := 0
	for i, id := range ids {
		c := membership[i]
		result.Communities[id] = c
		if c+1 > numCommunities {
			numCommunities = c + 1
		}
	}
	result.NumCommunities = numCommunities
	result.Modularity = base.modularity(membership)
	emit(report, 1)
	return result
}

// movePhase runs local optimization sweeps over one level until a
// sweep makes no moves or the pass cap is hit. Returns the final
// node→community map (ids are node indices) and the move count.
func (s Louvain) movePhase(lv *level, passDone func()) ([]int, int) {
	n := len(lv.adj)
	comm := make([]int, n)
	tot := make([]float64, n)
	for i := range comm {
		comm[i] = i
		tot[i] = lv.degree[i]
	}
	if lv.m2 == 0 {
		return comm, 0
	}

	// MinGain is a modularity delta; gains below are scaled by 1/m.
	threshold := s.MinGain * (lv.m2 / 2)

	totalMoved := 0
	for pass := 0; pass < s.MaxPasses; pass++ {
		moved := 0
		for i := 0; i < n; i++ {
			old := comm[i]
			tot[old] -= lv.degree[i]

			// Edge weight from i to each adjacent community. The
			// diagonal follows i wherever it goes, so it cancels out
			// of every comparison and is skipped.
			cand := map[int]float64{old: 0}
			for j, w := range lv.adj[i] {
				if j != i {
					cand[comm[j]] += w
				}
			}

			best := old
			baseline := cand[old] - lv.degree[i]*tot[old]/lv.m2
			bestGain := baseline
			for _, c := range sortedCommunities(cand) {
				if c == old {
					continue
				}
				gain := cand[c] - lv.degree[i]*tot[c]/lv.m2
				if gain > bestGain {
					best, bestGain = c, gain
				}
			}

			if best != old && bestGain-baseline > threshold {
				comm[i] = best
				moved++
			}
			tot[comm[i]] += lv.degree[i]
		}
		totalMoved += moved
		passDone()
		if moved == 0 {
			break
		}
	}
	return comm, totalMoved
}
