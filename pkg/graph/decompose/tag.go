package decompose

import "github.com/matzehuels/modgraph/pkg/graph"

// TagSources marks every node that has children but no parents as a module
// and returns how many nodes matched. It never removes nodes.
func TagSources(g *graph.Graph) int {
	matched := 0
	for _, n := range g.Nodes() {
		if n.HasChildren() && !n.HasParents() {
			n.Kind = graph.KindModule
			matched++
		}
	}
	return matched
}

// TagSinks marks every node that has parents but no children as a module and
// returns how many nodes matched. It never removes nodes.
func TagSinks(g *graph.Graph) int {
	matched := 0
	for _, n := range g.Nodes() {
		if n.HasParents() && !n.HasChildren() {
			n.Kind = graph.KindModule
			matched++
		}
	}
	return matched
}
