package graph_test

import (
	"fmt"

	"github.com/matzehuels/modgraph/pkg/graph"
)

func ExampleBuild() {
	g := graph.Build([]int{0, 1}, [][]string{
		{"cut", "drill", "paint"},
		{"cut", "weld", "paint"},
	})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println(g)
	// Output:
	// Nodes: 4
	// Edges: 4
	// cut -> drill;cut -> weld;drill -> paint;weld -> paint
}

func ExampleGraph_Merge() {
	g := graph.Build([]int{0}, [][]string{{"A", "B", "C"}})
	a, _ := g.Find("A")
	b, _ := g.Find("B")

	merged := g.Merge(a, b)

	fmt.Println("Merged:", merged)
	fmt.Println("Label:", a.Label)
	fmt.Println("Members:", a.Members)
	fmt.Println(g)
	// Output:
	// Merged: true
	// Label: AB
	// Members: [A B]
	// AB -> C
}
