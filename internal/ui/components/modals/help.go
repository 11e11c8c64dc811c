package modals

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/styles"
)

type HelpModal struct {
	styles  *styles.Styles
	visible bool
	width   int
}

func NewHelpModal(styles *styles.Styles) HelpModal {
	return HelpModal{
		styles: styles,
		width:  80,
	}
}

const helpText = `
Navigation:
  j/↓       - Move down
  k/↑       - Move up
  g/Home    - Go to top
  G/End     - Go to bottom
  Ctrl+D    - Page down
  Ctrl+U    - Page up

Actions:
  c         - Commit
  p         - Push
  P         - Pull
  f         - Fetch
  b         - Branch picker (type to filter)
  Enter     - Expand commit details
  d         - Toggle lane-diagnostic panel

Clipboard:
  y         - Copy commit hash
  Y         - Copy commit message
  Ctrl+Y    - Copy diff

General:
  ?         - Toggle help
  q/Ctrl+C  - Quit

Note: Native terminal text selection works with mouse drag.
`

// Height returns the terminal rows this panel occupies when visible.
func (m HelpModal) Height() int {
	if !m.visible {
		return 0
	}
	return strings.Count(helpText, "\n") + 3 // border(2) + title(1)
}

func (m HelpModal) View() string {
	if !m.visible {
		return ""
	}

	title := m.styles.Title.Render("Keybindings")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.styles.Help.Render(helpText),
	)

	return m.styles.PanelFocused.Width(m.width - 2).Render(content)
}

func (m *HelpModal) Toggle() {
	m.visible = !m.visible
}

func (m *HelpModal) IsVisible() bool {
	return m.visible
}

func (m *HelpModal) SetSize(width, height int) {
	m.width = width
}
