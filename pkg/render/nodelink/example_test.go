package nodelink_test

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := graph.Build([]int{0}, [][]string{{"cut", "paint"}})

	// Keep node and edge statements, skip graph attributes.
	stmt := regexp.MustCompile(`^  n\d`)
	for _, line := range strings.Split(nodelink.ToDOT(g, nodelink.Options{}), "\n") {
		if stmt.MatchString(line) {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// n0 [label="cut"];
	// n1 [label="paint"];
	// n0 -> n1;
}
