package decompose

import (
	"slices"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// MergeMutualPair finds the first node (in insertion order) that has a
// neighbour which is both its parent and its child, and contracts the pair
// with [graph.Graph.MergeByDegree], the neighbour being the first operand.
//
// Only the first pair is considered. The return value reports whether a merge
// happened; a pair refused by the size cap still ends the pass.
func MergeMutualPair(g *graph.Graph) bool {
	for _, n := range g.Nodes() {
		if !n.HasChildren() || !n.HasParents() {
			continue
		}
		children := g.Children(n)
		for _, p := range g.Parents(n) {
			if slices.Contains(children, p) {
				return g.MergeByDegree(p, n)
			}
		}
	}
	return false
}
