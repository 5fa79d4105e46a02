package decompose

import (
	"slices"
	"testing"

	"github.com/matzehuels/modgraph/pkg/graph"
)

func TestFindConvergence_Diamond(t *testing.T) {
	g := build(t, "a>b", "a>c", "b>d", "c>d")

	got := nodeLabels(FindConvergence(g))
	if want := []string{"a", "b", "c", "d"}; !slices.Equal(got, want) {
		t.Errorf("FindConvergence() = %v, want %v", got, want)
	}

	if merged := MergeConvergence(g); merged != 3 {
		t.Errorf("MergeConvergence() = %d, want 3", merged)
	}
	if g.NodeCount() != 1 || g.Nodes()[0].Label != "abcd" {
		t.Errorf("nodes after merge: %v", nodeLabels(g.Nodes()))
	}
}

func TestFindConvergence_TransitiveEdge(t *testing.T) {
	g := graph.Build([]int{0, 1}, [][]string{{"a", "b", "c"}, {"a", "c"}})

	got := nodeLabels(FindConvergence(g))
	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("FindConvergence() = %v, want %v", got, want)
	}
}

func TestFindConvergence_JoinIsSiblingRoot(t *testing.T) {
	g := build(t, "s>a", "s>b", "b>a")

	got := nodeLabels(FindConvergence(g))
	if want := []string{"s", "b", "a"}; !slices.Equal(got, want) {
		t.Errorf("FindConvergence() = %v, want %v", got, want)
	}
}

func TestFindConvergence_LongBranches(t *testing.T) {
	g := build(t, "s>a", "s>x", "a>b", "b>j", "x>j", "j>z")

	got := nodeLabels(FindConvergence(g))
	if want := []string{"s", "a", "b", "x", "j"}; !slices.Equal(got, want) {
		t.Errorf("FindConvergence() = %v, want %v", got, want)
	}

	MergeConvergence(g)
	if got, want := g.Snapshot(), "sabxj -> z"; got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
}

func TestFindConvergence_None(t *testing.T) {
	tests := []struct {
		name  string
		edges []string
	}{
		{"chain", []string{"A>B", "B>C"}},
		{"fork without join", []string{"a>b", "a>c"}},
		{"cycle through fork", []string{"a>b", "b>a", "a>c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.edges...)
			if seq := FindConvergence(g); seq != nil {
				t.Errorf("FindConvergence() = %v, want nil", nodeLabels(seq))
			}
			if MergeConvergence(g) != 0 {
				t.Error("MergeConvergence() merged without a pattern")
			}
		})
	}
}

func TestFindConvergence_FirstForkInInsertionOrder(t *testing.T) {
	g := build(t, "p>q", "p>r", "q>t", "r>t", "u>v", "u>w", "v>x", "w>x")

	seq := FindConvergence(g)
	if len(seq) == 0 || seq[0].Label != "p" {
		t.Errorf("FindConvergence() = %v, want fork p first", nodeLabels(seq))
	}
}

func TestFindConvergence_BranchPathsDisjoint(t *testing.T) {
	found := 0
	for seed := uint64(1); seed <= 200; seed++ {
		groups, ops := randomGraph(seed, 5, 6, 10)
		g := graph.Build(groups, ops)

		seq := FindConvergence(g)
		if seq == nil {
			continue
		}
		found++
		if len(seq) < 3 {
			t.Errorf("seed %d: sequence %v too short", seed, nodeLabels(seq))
		}
		seen := make(map[graph.NodeID]bool, len(seq))
		for _, n := range seq {
			if seen[n.ID] {
				t.Errorf("seed %d: node %s repeated in %v", seed, n.Label, nodeLabels(seq))
			}
			seen[n.ID] = true
		}
	}
	if found == 0 {
		t.Fatal("no random graph had a convergence")
	}
}
