// Package details renders the commit-graph engine's diagnostic column for
// the row under the cursor: the lane-buffer's internal slot state at the
// point the row was baked, for debugging lane assignment. It only has
// content to show when the engine is run with its diagnostic column
// enabled (config CommitGraph.Diagnostic / --diagnostic).
package details

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/walker"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/styles"
)

type Model struct {
	viewport viewport.Model
	styles   *styles.Styles
	visible  bool
	width    int
	height   int
}

func New(s *styles.Styles, width, height int) Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return Model{
		viewport: vp,
		styles:   s,
		width:    width,
		height:   height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Height returns the terminal rows this panel occupies when visible.
func (m Model) Height() int {
	if !m.visible {
		return 0
	}
	return m.height
}

func (m Model) View() string {
	if !m.visible {
		return ""
	}
	return m.styles.PanelFocused.Width(m.width - 2).Height(m.height - 2).Render(m.viewport.View())
}

// Toggle flips panel visibility.
func (m *Model) Toggle() {
	m.visible = !m.visible
}

func (m *Model) IsVisible() bool {
	return m.visible
}

// SetRow loads the diagnostic text for the row under the cursor. A blank
// Diagnostic string (the engine's diagnostic column disabled, or no row
// selected) renders an explanatory placeholder rather than an empty box.
func (m *Model) SetRow(row *walker.Row) {
	if row == nil || row.Diagnostic == "" {
		label := lipgloss.NewStyle().Foreground(m.styles.Theme.Subtext).Italic(true)
		m.viewport.SetContent(label.Render("No diagnostic data (enable --diagnostic to populate the lane-buffer trace)"))
		return
	}
	m.viewport.SetContent(row.Diagnostic)
}

// SetSize sets the panel's total rendered height (including its border).
// Height() reports this same total so callers computing layout space can
// subtract it directly.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 2
	m.viewport.Height = height - 2
}
