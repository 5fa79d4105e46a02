package graph

// Build constructs a graph from rows of operation labels. For every index in
// groups, each label of operations[index] becomes a node and is wired as the
// parent of the label that follows it in that row.
//
// Build assumes validated input: every group index must address a row of
// operations. Use errors.ValidateInput before calling it on untrusted data.
func Build(groups []int, operations [][]string) *Graph {
	g := New()
	for _, gi := range groups {
		row := operations[gi]
		for _, label := range row {
			g.AddNode(label)
		}
		for i := 0; i+1 < len(row); i++ {
			if child, ok := g.Find(row[i+1]); ok {
				g.AddChildren(row[i], child)
			}
		}
	}
	return g
}

// AllGroups returns the indices 0..n-1, selecting every row of an operation
// table of length n.
func AllGroups(n int) []int {
	groups := make([]int, n)
	for i := range groups {
		groups[i] = i
	}
	return groups
}
