package modals

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/styles"
)

type CommitModal struct {
	textarea textarea.Model
	styles   *styles.Styles
	visible  bool
	width    int
}

func NewCommitModal(styles *styles.Styles) CommitModal {
	ta := textarea.New()
	ta.Placeholder = "Commit message..."
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.CharLimit = 500

	return CommitModal{
		textarea: ta,
		styles:   styles,
		visible:  false,
		width:    80,
	}
}

func (m CommitModal) Init() tea.Cmd {
	return textarea.Blink
}

func (m CommitModal) Update(msg tea.Msg) (CommitModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// Height returns the terminal rows this panel occupies when visible.
func (m CommitModal) Height() int {
	if !m.visible {
		return 0
	}
	return m.textarea.Height() + 4 // border(2) + title(1) + help(1)
}

func (m CommitModal) View() string {
	if !m.visible {
		return ""
	}

	title := m.styles.Title.Render("Commit Message")
	help := m.styles.Help.Render("Enter: Commit | Esc: Cancel")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.textarea.View(),
		help,
	)

	return m.styles.PanelFocused.Width(m.width - 2).Render(content)
}

func (m *CommitModal) Show() {
	m.visible = true
	m.textarea.Focus()
	m.textarea.SetValue("")
}

func (m *CommitModal) Hide() {
	m.visible = false
	m.textarea.Blur()
}

func (m *CommitModal) IsVisible() bool {
	return m.visible
}

func (m *CommitModal) Value() string {
	return m.textarea.Value()
}

func (m *CommitModal) SetSize(width, height int) {
	m.width = width
	m.textarea.SetWidth(width - 6)
}
