package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/modgraph/pkg/graph/decompose"
)

func testTrail() []decompose.Step {
	return []decompose.Step{
		{Iteration: 0, Pass: decompose.PassInitial, Nodes: 2, Edges: 2, Snapshot: "A -> B;B -> A"},
		{Iteration: 1, Pass: decompose.PassSources, Nodes: 2, Edges: 2, Snapshot: "A -> B;B -> A"},
		{Iteration: 1, Pass: decompose.PassSinks, Nodes: 2, Edges: 2, Snapshot: "A -> B;B -> A"},
		{Iteration: 1, Pass: decompose.PassMutual, Matched: 1, Nodes: 1, Snapshot: ""},
		{Iteration: 1, Pass: decompose.PassCycle, Nodes: 1},
		{Iteration: 1, Pass: decompose.PassConvergence, Nodes: 1},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m StepperModel, keys ...string) StepperModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(StepperModel)
	}
	return m
}

func TestStepperNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"start", nil, 0},
		{"down twice", []string{"down", "down"}, 2},
		{"clamped at top", []string{"up", "k"}, 0},
		{"last", []string{"G"}, 5},
		{"clamped at bottom", []string{"G", "j"}, 5},
		{"first", []string{"G", "g"}, 0},
		{"next change", []string{"n"}, 3},
		{"no later change", []string{"n", "n"}, 3},
		{"previous change", []string{"G", "p"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewStepperModel(testTrail()), tt.keys...)
			if m.Cursor != tt.want {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.want)
			}
		})
	}
}

func TestStepperQuit(t *testing.T) {
	_, cmd := NewStepperModel(testTrail()).Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestStepperScroll(t *testing.T) {
	m := NewStepperModel(testTrail())
	m.Height = 2
	m = press(m, "G")
	if m.Offset != 4 {
		t.Errorf("Offset = %d, want 4", m.Offset)
	}
	m = press(m, "g")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestStepperView(t *testing.T) {
	m := NewStepperModel(testTrail())
	view := m.View()
	for _, want := range []string{"Decomposition Trail", "Iteration 0 · initial", "A -> B", "B -> A", "[1/6]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	view = press(m, "n").View()
	if !strings.Contains(view, "(no edges)") {
		t.Error("View() after mutual merge should show an empty snapshot")
	}
}

func TestStepperEmpty(t *testing.T) {
	m := press(NewStepperModel(nil), "down", "G")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
	if !strings.Contains(m.View(), "(empty trail)") {
		t.Error("View() should report an empty trail")
	}
}
