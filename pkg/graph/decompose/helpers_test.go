package decompose

import (
	"testing"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// build creates a graph from "from>to" edge strings, adding nodes in the
// order they first appear.
func build(t *testing.T, edges ...string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, e := range edges {
		var from, to string
		for i := 0; i < len(e); i++ {
			if e[i] == '>' {
				from, to = e[:i], e[i+1:]
				break
			}
		}
		if from == "" || to == "" {
			t.Fatalf("bad edge %q", e)
		}
		g.AddNode(from)
		child := g.AddNode(to)
		g.AddChildren(from, child)
	}
	return g
}

func find(t *testing.T, g *graph.Graph, label string) *graph.Node {
	t.Helper()
	n, ok := g.Find(label)
	if !ok {
		t.Fatalf("Find(%q) = not found in %v", label, nodeLabels(g.Nodes()))
	}
	return n
}

func nodeLabels(nodes []*graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}
