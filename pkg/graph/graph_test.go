package graph

import (
	"errors"
	"slices"
	"testing"
)

func labels(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func mustFind(t *testing.T, g *Graph, label string) *Node {
	t.Helper()
	n, ok := g.Find(label)
	if !ok {
		t.Fatalf("Find(%q) = not found", label)
	}
	return n
}

func edge(t *testing.T, g *Graph, from, to string) {
	t.Helper()
	g.AddChildren(from, mustFind(t, g, to))
}

func TestAddNode_Idempotent(t *testing.T) {
	g := New()
	a := g.AddNode("a")
	again := g.AddNode("a")

	if a != again {
		t.Error("AddNode returned a different node for an existing label")
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
	if a.MergeCount != 1 {
		t.Errorf("MergeCount = %d, want 1", a.MergeCount)
	}
	if a.Kind != KindUnclassified {
		t.Errorf("Kind = %v, want unclassified", a.Kind)
	}
}

func TestFind_Missing(t *testing.T) {
	g := New()
	g.AddNode("a")
	if n, ok := g.Find("zz"); ok || n != nil {
		t.Errorf("Find(missing) = %v, %v", n, ok)
	}
}

func TestAddChildren_Symmetric(t *testing.T) {
	g := New()
	a := g.AddNode("a")
	b := g.AddNode("b")
	g.AddChildren("a", b)

	if got := labels(g.Children(a)); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Children(a) = %v", got)
	}
	if got := labels(g.Parents(b)); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Parents(b) = %v", got)
	}
}

func TestAddChildren_Dedup(t *testing.T) {
	g := New()
	b := g.AddNode("b")
	g.AddNode("a")
	g.AddChildren("a", b, b)
	g.AddParents("b", mustFind(t, g, "a"))

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestAddChildren_UnknownLabelIsNoop(t *testing.T) {
	g := New()
	b := g.AddNode("b")
	g.AddChildren("missing", b)
	g.AddParents("missing", b)

	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestAddChildren_SkipsSelfAndForeign(t *testing.T) {
	g := New()
	a := g.AddNode("a")
	other := New().AddNode("x")

	g.AddChildren("a", a, other, nil)

	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestAddParents_Mirror(t *testing.T) {
	g := New()
	a := g.AddNode("a")
	g.AddNode("b")
	g.AddParents("b", a)

	if got := g.Snapshot(); got != "a -> b" {
		t.Errorf("Snapshot() = %q, want %q", got, "a -> b")
	}
}

func TestBuild_Chain(t *testing.T) {
	g := Build([]int{0}, [][]string{{"A", "B", "C"}})

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if got, want := g.Snapshot(), "A -> B;B -> C"; got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
}

func TestBuild_SelectsGroups(t *testing.T) {
	ops := [][]string{
		{"A", "B"},
		{"X", "Y"},
		{"B", "C"},
	}
	g := Build([]int{0, 2}, ops)

	if _, ok := g.Find("X"); ok {
		t.Error("unselected row was added")
	}
	if got, want := g.Snapshot(), "A -> B;B -> C"; got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
}

func TestBuild_RepeatedLabelUsesPositionalSuccessor(t *testing.T) {
	g := Build([]int{0}, [][]string{{"A", "B", "A", "C"}})

	if got, want := g.Snapshot(), "A -> B;A -> C;B -> A"; got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBuild_AdjacentDuplicateDropsSelfLoop(t *testing.T) {
	g := Build([]int{0}, [][]string{{"A", "A", "B"}})

	if got, want := g.Snapshot(), "A -> B"; got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
}

func TestBuild_EmptyRow(t *testing.T) {
	g := Build([]int{0}, [][]string{{}})
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
}

func TestMerge_LabelConservation(t *testing.T) {
	g := Build([]int{0}, [][]string{{"A", "B", "C"}})
	a, b := mustFind(t, g, "A"), mustFind(t, g, "B")

	if !g.Merge(a, b) {
		t.Fatal("Merge() = false")
	}
	if a.Label != "AB" {
		t.Errorf("Label = %q, want AB", a.Label)
	}
	if !slices.Equal(a.Members, []string{"A", "B"}) {
		t.Errorf("Members = %v", a.Members)
	}
	if a.MergeCount != 2 {
		t.Errorf("MergeCount = %d, want 2", a.MergeCount)
	}
	if got := mustFind(t, g, "C").Label; got != "C" {
		t.Errorf("unrelated label changed to %q", got)
	}
	if got, want := g.Snapshot(), "AB -> C"; got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
	if _, ok := g.Node(b.ID); ok {
		t.Error("deleted node is still live")
	}
}

func TestMerge_NoSelfLoopFromMutualPair(t *testing.T) {
	g := Build([]int{0, 1}, [][]string{{"A", "B"}, {"B", "A"}})
	a, b := mustFind(t, g, "A"), mustFind(t, g, "B")

	g.Merge(a, b)

	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0 (%s)", g.EdgeCount(), g)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestMerge_SharedNeighbourKeepsOneEdge(t *testing.T) {
	//   A   B
	//    \ /
	//     C
	g := New()
	g.AddNode("A")
	g.AddNode("B")
	g.AddNode("C")
	edge(t, g, "A", "C")
	edge(t, g, "B", "C")

	g.Merge(mustFind(t, g, "A"), mustFind(t, g, "B"))

	if got, want := g.Snapshot(), "AB -> C"; got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
	c := mustFind(t, g, "C")
	if len(g.Parents(c)) != 1 {
		t.Errorf("Parents(C) = %v, want one entry", labels(g.Parents(c)))
	}
}

func TestMerge_RewiresBothDirections(t *testing.T) {
	// P -> D -> K, U isolated; merging D into U moves both edges.
	g := New()
	for _, l := range []string{"P", "D", "K", "U"} {
		g.AddNode(l)
	}
	edge(t, g, "P", "D")
	edge(t, g, "D", "K")

	u := mustFind(t, g, "U")
	if !g.Merge(u, mustFind(t, g, "D")) {
		t.Fatal("Merge() = false")
	}
	if got := labels(g.Parents(u)); !slices.Equal(got, []string{"P"}) {
		t.Errorf("Parents(UD) = %v", got)
	}
	if got := labels(g.Children(u)); !slices.Equal(got, []string{"K"}) {
		t.Errorf("Children(UD) = %v", got)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestMerge_SizeCap(t *testing.T) {
	g := Build([]int{0}, [][]string{{"A", "B", "C", "D", "E", "F"}})
	a := mustFind(t, g, "A")
	for _, l := range []string{"B", "C", "D", "E"} {
		if !g.Merge(a, mustFind(t, g, l)) {
			t.Fatalf("Merge(A, %s) = false", l)
		}
	}
	if a.MergeCount != MaxModuleSize {
		t.Fatalf("MergeCount = %d, want %d", a.MergeCount, MaxModuleSize)
	}

	before := g.Snapshot()
	f := mustFind(t, g, "F")
	if g.Merge(a, f) {
		t.Error("Merge() past the size cap succeeded")
	}
	if a.MergeCount != MaxModuleSize || a.Label != "ABCDE" {
		t.Errorf("rejected merge changed union: %q/%d", a.Label, a.MergeCount)
	}
	if g.Snapshot() != before || g.NodeCount() != 2 {
		t.Error("rejected merge changed the graph")
	}
}

func TestMerge_SizeCapCountsBothSides(t *testing.T) {
	g := Build([]int{0}, [][]string{{"A", "B", "C", "D", "E", "F"}})
	a, d := mustFind(t, g, "A"), mustFind(t, g, "D")
	g.Merge(a, mustFind(t, g, "B"))
	g.Merge(a, mustFind(t, g, "C"))
	g.Merge(d, mustFind(t, g, "E"))
	g.Merge(d, mustFind(t, g, "F"))

	if g.Merge(a, d) {
		t.Error("3+3 merge should be refused")
	}
}

func TestMerge_Rejections(t *testing.T) {
	g := Build([]int{0}, [][]string{{"A", "B"}})
	a, b := mustFind(t, g, "A"), mustFind(t, g, "B")

	if g.Merge(a, a) {
		t.Error("Merge(a, a) succeeded")
	}
	g.Merge(a, b)
	if g.Merge(a, b) {
		t.Error("merging a removed node succeeded")
	}
	if g.Merge(New().AddNode("x"), a) {
		t.Error("merging a foreign node succeeded")
	}
}

func TestMergeByDegree(t *testing.T) {
	tests := []struct {
		name      string
		extra     [][2]string
		first     string
		second    string
		wantLabel string
	}{
		{"second has more edges", nil, "A", "B", "BA"},
		{"first has more edges", nil, "B", "A", "BA"},
		{"tie keeps first", [][2]string{{"C", "A"}, {"C", "D"}}, "B", "C", "BC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A -> B, B -> C, B -> D, C -> B
			g := New()
			for _, l := range []string{"A", "B", "C", "D"} {
				g.AddNode(l)
			}
			edge(t, g, "A", "B")
			edge(t, g, "B", "C")
			edge(t, g, "B", "D")
			edge(t, g, "C", "B")
			for _, e := range tt.extra {
				edge(t, g, e[0], e[1])
			}

			g.MergeByDegree(mustFind(t, g, tt.first), mustFind(t, g, tt.second))

			if _, ok := g.Find(tt.wantLabel); !ok {
				t.Errorf("no node %q after merge: %v", tt.wantLabel, labels(g.Nodes()))
			}
		})
	}
}

func TestSnapshot_Empty(t *testing.T) {
	g := New()
	g.AddNode("solo")
	if got := g.Snapshot(); got != "" {
		t.Errorf("Snapshot() = %q, want empty", got)
	}
}

func TestSnapshot_DedupesCollidingLabels(t *testing.T) {
	g := New()
	a := g.Insert("x")
	b := g.Insert("x")
	c := g.Insert("y")
	g.AddEdge(a, c)
	g.AddEdge(b, c)

	if got := g.Snapshot(); got != "x -> y" {
		t.Errorf("Snapshot() = %q, want %q", got, "x -> y")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestClone_Independent(t *testing.T) {
	g := Build([]int{0}, [][]string{{"A", "B", "C"}})
	c := g.Clone()

	c.Merge(mustFind(t, c, "A"), mustFind(t, c, "B"))

	if g.NodeCount() != 3 || g.Snapshot() != "A -> B;B -> C" {
		t.Errorf("original changed after merging the clone: %s", g)
	}
	if c.Snapshot() != "AB -> C" {
		t.Errorf("clone Snapshot() = %q", c.Snapshot())
	}
}

func TestValidate_DetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(g *Graph)
		want    error
	}{
		{
			name: "missing parent entry",
			corrupt: func(g *Graph) {
				b, _ := g.Find("B")
				b.parents = nil
			},
			want: ErrAsymmetricEdge,
		},
		{
			name: "self loop",
			corrupt: func(g *Graph) {
				a, _ := g.Find("A")
				a.children = append(a.children, a.ID)
				a.parents = append(a.parents, a.ID)
			},
			want: ErrSelfLoop,
		},
		{
			name: "dangling",
			corrupt: func(g *Graph) {
				a, _ := g.Find("A")
				a.children = append(a.children, NodeID(99))
			},
			want: ErrDanglingEdge,
		},
		{
			name: "oversized",
			corrupt: func(g *Graph) {
				a, _ := g.Find("A")
				a.MergeCount = MaxModuleSize + 1
			},
			want: ErrModuleTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build([]int{0}, [][]string{{"A", "B"}})
			tt.corrupt(g)
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindModule.String() != "module" || KindUnclassified.String() != "unclassified" {
		t.Error("unexpected Kind strings")
	}
	if ParseKind("module") != KindModule || ParseKind("bogus") != KindUnclassified {
		t.Error("ParseKind mismatch")
	}
}

func TestAllGroups(t *testing.T) {
	if got := AllGroups(3); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("AllGroups(3) = %v", got)
	}
	if got := AllGroups(0); len(got) != 0 {
		t.Errorf("AllGroups(0) = %v", got)
	}
}
