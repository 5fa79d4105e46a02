package decompose

import (
	"slices"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// FindConvergence looks for a node whose descendants reconverge: a fork s
// with two children from which the same node j is reachable along two
// different paths (a diamond).
//
// Candidate forks are tried in insertion order. For each fork the children
// are explored one branch at a time, depth-first in edge order and never
// re-entering s; every reached node is attributed to the branch that reached
// it first. The first node reached by a second branch is the join j. The
// result is s, then the first branch's path to j, then the second branch's
// path to j, then j. The two paths are disjoint because every node belongs to
// exactly one branch. It returns nil when no fork reconverges.
func FindConvergence(g *graph.Graph) []*graph.Node {
	for _, s := range g.Nodes() {
		if seq := convergenceFrom(g, s); seq != nil {
			return seq
		}
	}
	return nil
}

func convergenceFrom(g *graph.Graph, s *graph.Node) []*graph.Node {
	children := g.Children(s)
	if len(children) < 2 {
		return nil
	}

	branch := make(map[graph.NodeID]int)
	prev := make(map[graph.NodeID]*graph.Node)
	var join, via *graph.Node

	var visit func(n, from *graph.Node, b int) bool
	visit = func(n, from *graph.Node, b int) bool {
		if n == s {
			return false
		}
		if owner, seen := branch[n.ID]; seen {
			if owner != b {
				join, via = n, from
				return true
			}
			return false
		}
		branch[n.ID] = b
		prev[n.ID] = from
		for _, c := range g.Children(n) {
			if visit(c, n, b) {
				return true
			}
		}
		return false
	}

	for b, c := range children {
		if !visit(c, nil, b) {
			continue
		}
		seq := []*graph.Node{s}
		seq = append(seq, pathTo(prev, prev[join.ID])...)
		seq = append(seq, pathTo(prev, via)...)
		return append(seq, join)
	}
	return nil
}

// pathTo walks the predecessor chain from n back to its branch root and
// returns it root first. A nil n yields an empty path.
func pathTo(prev map[graph.NodeID]*graph.Node, n *graph.Node) []*graph.Node {
	var path []*graph.Node
	for ; n != nil; n = prev[n.ID] {
		path = append(path, n)
	}
	slices.Reverse(path)
	return path
}

// MergeConvergence contracts the pattern reported by [FindConvergence] into
// its fork node and returns the number of merges that succeeded.
func MergeConvergence(g *graph.Graph) int {
	seq := FindConvergence(g)
	merged := 0
	for i := 0; i < len(seq)-1; i++ {
		if g.Merge(seq[0], seq[i+1]) {
			merged++
		}
	}
	return merged
}
