package modals

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lazygit-lite/lazygit-lite/internal/git"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/styles"
	"github.com/sahilm/fuzzy"
)

type BranchModal struct {
	styles   *styles.Styles
	visible  bool
	width    int
	height   int
	branches []*git.Branch
	filtered []*git.Branch
	filter   textinput.Model
	cursor   int
}

func NewBranchModal(s *styles.Styles) BranchModal {
	ti := textinput.New()
	ti.Placeholder = "filter branches..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	return BranchModal{
		styles:  s,
		visible: false,
		width:   80,
		height:  24,
		filter:  ti,
	}
}

// Update forwards typed characters to the filter input and recomputes the
// fuzzy-matched branch list on every keystroke.
func (m BranchModal) Update(msg tea.KeyMsg) (BranchModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter ranks m.branches by fuzzy match against the filter text,
// grounded on the same sahilm/fuzzy Find(pattern, source) shape the rest of
// the ecosystem's TUI branch/file pickers use. An empty filter keeps the
// branch list in the order it was shown with.
func (m *BranchModal) applyFilter() {
	query := m.filter.Value()
	if query == "" {
		m.filtered = m.branches
		m.clampCursor()
		return
	}

	names := make([]string, len(m.branches))
	for i, b := range m.branches {
		names[i] = b.Name
	}

	matches := fuzzy.Find(query, names)
	filtered := make([]*git.Branch, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, m.branches[match.Index])
	}
	m.filtered = filtered
	m.clampCursor()
}

func (m *BranchModal) clampCursor() {
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Height returns the number of terminal rows this component occupies when visible.
func (m BranchModal) Height() int {
	if !m.visible {
		return 0
	}
	rows := len(m.filtered)
	if rows > 10 {
		rows = 10
	}
	if rows < 1 {
		rows = 1
	}
	return rows + 4 // border(2) + filter(1) + title(1) + branch rows
}

// View renders the inline branch picker panel.
func (m BranchModal) View() string {
	if !m.visible {
		return ""
	}

	theme := m.styles.Theme
	panelBg := theme.BackgroundPanel

	bgStyle := lipgloss.NewStyle().Background(panelBg)
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Background(panelBg).
		Bold(true)
	hintStyle := lipgloss.NewStyle().
		Foreground(theme.DiffContext).
		Background(panelBg).
		Italic(true)

	innerWidth := m.width - 4
	if innerWidth < 20 {
		innerWidth = 20
	}

	titleText := " Branches"
	hintText := "Enter to checkout | Esc to close"
	titleRendered := titleStyle.Render(titleText)
	hintRendered := hintStyle.Render(hintText)
	titleGap := innerWidth - lipgloss.Width(titleText) - lipgloss.Width(hintText)
	if titleGap < 1 {
		hintText = "Enter | Esc"
		hintRendered = hintStyle.Render(hintText)
		titleGap = innerWidth - lipgloss.Width(titleText) - lipgloss.Width(hintText)
		if titleGap < 1 {
			hintRendered = ""
			titleGap = innerWidth - lipgloss.Width(titleText)
			if titleGap < 0 {
				titleGap = 0
			}
		}
	}
	titleRow := titleRendered + bgStyle.Width(titleGap).Render("") + hintRendered

	var rows []string
	rows = append(rows, titleRow)
	rows = append(rows, bgStyle.Width(innerWidth).Render(m.filter.View()))

	maxVisible := 10
	if len(m.filtered) < maxVisible {
		maxVisible = len(m.filtered)
	}

	scrollStart := 0
	if m.cursor >= maxVisible {
		scrollStart = m.cursor - maxVisible + 1
	}
	scrollEnd := scrollStart + maxVisible
	if scrollEnd > len(m.filtered) {
		scrollEnd = len(m.filtered)
		scrollStart = scrollEnd - maxVisible
		if scrollStart < 0 {
			scrollStart = 0
		}
	}

	for i := scrollStart; i < scrollEnd; i++ {
		b := m.filtered[i]
		isSelected := i == m.cursor

		var bg lipgloss.Color
		if isSelected {
			bg = theme.Selection
		} else {
			bg = panelBg
		}

		rowBg := lipgloss.NewStyle().Background(bg)
		nameStyle := lipgloss.NewStyle().Foreground(theme.BranchMain).Background(bg).Bold(true)
		currentStyle := lipgloss.NewStyle().Foreground(theme.Head).Background(bg)
		hashStyle := lipgloss.NewStyle().Foreground(theme.CommitHash).Background(bg)

		prefix := "  "
		if b.IsCurrent {
			prefix = currentStyle.Render("* ")
		} else {
			prefix = rowBg.Render("  ")
		}

		nameAvail := innerWidth - 11
		if nameAvail < 6 {
			nameAvail = 6
		}
		displayName := b.Name
		nameRunes := []rune(displayName)
		if len(nameRunes) > nameAvail {
			displayName = string(nameRunes[:nameAvail-1]) + "…"
		}

		name := nameStyle.Render(displayName)
		hash := hashStyle.Render(" " + b.Hash[:7])
		row := prefix + name + hash

		visWidth := lipgloss.Width(row)
		if visWidth < innerWidth {
			row = row + rowBg.Width(innerWidth-visWidth).Render("")
		}

		row = lipgloss.NewStyle().Background(bg).Width(innerWidth).Render(row)
		rows = append(rows, row)
	}

	if len(m.filtered) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.Subtext).Background(panelBg).Italic(true)
		rows = append(rows, emptyStyle.Render("  No matching branches"))
	}

	content := ""
	for i, r := range rows {
		if i > 0 {
			content += "\n"
		}
		content += r
	}

	bar := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.BranchMain).
		BorderBackground(theme.Background).
		Background(panelBg).
		Width(m.width - 2).
		Render(content)

	return bar
}

func (m *BranchModal) Show(branches []*git.Branch) {
	m.visible = true
	m.branches = branches
	m.filtered = branches
	m.filter.SetValue("")
	m.filter.Focus()
	m.cursor = 0
	for i, b := range branches {
		if b.IsCurrent {
			m.cursor = i
			break
		}
	}
}

func (m *BranchModal) Hide() {
	m.visible = false
	m.branches = nil
	m.filtered = nil
	m.filter.Blur()
	m.filter.SetValue("")
	m.cursor = 0
}

func (m *BranchModal) IsVisible() bool {
	return m.visible
}

// MoveUp moves the branch cursor up.
func (m *BranchModal) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveDown moves the branch cursor down.
func (m *BranchModal) MoveDown() {
	if m.cursor < len(m.filtered)-1 {
		m.cursor++
	}
}

// SelectedBranch returns the currently highlighted branch, or nil.
func (m *BranchModal) SelectedBranch() *git.Branch {
	if m.cursor >= 0 && m.cursor < len(m.filtered) {
		return m.filtered[m.cursor]
	}
	return nil
}

func (m *BranchModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}
