package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/modgraph/pkg/graph/decompose"
	pkgio "github.com/matzehuels/modgraph/pkg/io"
)

var (
	stepSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stepChangedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	stepDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	edgeStyle         = lipgloss.NewStyle().Foreground(colorWhite)
)

// =============================================================================
// StepperModel - Interactive pass-by-pass trail viewer
// =============================================================================

// StepperModel is the bubbletea model for stepping through a decomposition
// trail one pass at a time.
type StepperModel struct {
	Steps  []decompose.Step
	Cursor int
	Height int // visible rows of the trail table
	Offset int
}

// NewStepperModel creates a stepper positioned at the initial snapshot.
func NewStepperModel(steps []decompose.Step) StepperModel {
	return StepperModel{Steps: steps, Height: 10}
}

func (m StepperModel) Init() tea.Cmd {
	return nil
}

func (m StepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left", "h":
			m.move(-1)
		case "down", "j", "right", "l", " ":
			m.move(1)
		case "n":
			m.jumpChanged(1)
		case "p":
			m.jumpChanged(-1)
		case "home", "g":
			m.move(-len(m.Steps))
		case "end", "G":
			m.move(len(m.Steps))
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height/2 - 4
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m *StepperModel) move(delta int) {
	m.Cursor = max(0, min(len(m.Steps)-1, m.Cursor+delta))
	m.scroll()
}

// jumpChanged moves to the next (dir > 0) or previous step whose pass
// matched something.
func (m *StepperModel) jumpChanged(dir int) {
	for i := m.Cursor + dir; i >= 0 && i < len(m.Steps); i += dir {
		if m.Steps[i].Matched > 0 {
			m.Cursor = i
			m.scroll()
			return
		}
	}
}

func (m *StepperModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m StepperModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Decomposition Trail"))
	b.WriteString("\n")
	b.WriteString(stepDimStyle.Render("↑/↓ step  n/p next/prev change  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Steps) == 0 {
		b.WriteString(stepDimStyle.Render("  (empty trail)"))
		return b.String()
	}

	b.WriteString(m.trailTable())
	b.WriteString("\n\n")
	b.WriteString(m.snapshotView())
	b.WriteString("\n")
	b.WriteString(stepDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Steps))))
	return b.String()
}

func (m StepperModel) trailTable() string {
	end := min(m.Offset+m.Height, len(m.Steps))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Steps[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(s.Iteration),
			string(s.Pass),
			strconv.Itoa(s.Matched),
			strconv.Itoa(s.Nodes),
			strconv.Itoa(s.Edges),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Iter", "Pass", "Matched", "Nodes", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Steps) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return stepSelectedStyle
			case m.Steps[idx].Matched > 0:
				return stepChangedStyle
			}
			return stepDimStyle
		}).
		Render()
}

func (m StepperModel) snapshotView() string {
	s := m.Steps[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleValue.Render(fmt.Sprintf("Iteration %d · %s", s.Iteration, s.Pass)))
	b.WriteString("\n")
	if s.Snapshot == "" {
		b.WriteString(stepDimStyle.Render("  (no edges)"))
		b.WriteString("\n")
		return b.String()
	}
	for _, line := range strings.Split(s.Snapshot, ";") {
		b.WriteString("  ")
		b.WriteString(edgeStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// runStepper opens the trail viewer for rep.
func runStepper(rep *pkgio.Report) error {
	if len(rep.Trail) == 0 {
		printWarning("Report has no trail to step through")
		return nil
	}
	_, err := tea.NewProgram(NewStepperModel(rep.Trail), tea.WithAltScreen()).Run()
	return err
}
