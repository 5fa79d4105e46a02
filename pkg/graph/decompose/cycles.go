package decompose

import (
	"slices"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// FindCycle returns the first directed cycle found by a depth-first search
// that starts from nodes in insertion order and follows children in edge
// order. The result lists the cycle from its entry node around the loop and
// repeats the entry node at the end, so result[0] == result[len-1]. It returns
// nil when the graph is acyclic.
func FindCycle(g *graph.Graph) []*graph.Node {
	const (
		white = iota
		gray
		black
	)

	color := make(map[graph.NodeID]int, g.NodeCount())
	var stack, cycle []*graph.Node

	var dfs func(n *graph.Node) bool
	dfs = func(n *graph.Node) bool {
		color[n.ID] = gray
		stack = append(stack, n)
		for _, child := range g.Children(n) {
			switch color[child.ID] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				start := slices.Index(stack, child)
				cycle = append(slices.Clone(stack[start:]), child)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[n.ID] = black
		return false
	}

	for _, n := range g.Nodes() {
		if color[n.ID] == white && dfs(n) {
			return cycle
		}
	}
	return nil
}

// MergeCycle contracts the cycle reported by [FindCycle] into its entry node,
// one member at a time, and returns the number of merges that succeeded.
// Members refused by the size cap stay in the graph.
func MergeCycle(g *graph.Graph) int {
	cycle := FindCycle(g)
	merged := 0
	// the last entry closes the loop and is the entry node itself
	for i := 0; i < len(cycle)-2; i++ {
		if g.Merge(cycle[0], cycle[i+1]) {
			merged++
		}
	}
	return merged
}
