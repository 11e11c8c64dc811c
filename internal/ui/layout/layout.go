// Package layout computes the terminal geometry for the single graph panel,
// the action bar, and whatever inline modal (commit/help/branch) is
// currently showing beneath it.
package layout

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout owns the outer terminal dimensions and renders the panel border
// and background every frame draws through.
type Layout struct {
	width      int
	height     int
	splitRatio float64

	bg     lipgloss.Color
	border lipgloss.Color
	fg     lipgloss.Color
}

// New builds a Layout for a width x height terminal. splitRatio is kept for
// forward compatibility with a future side panel; the current single-panel
// layout does not consume it directly.
func New(width, height int, splitRatio float64, bg, border, fg lipgloss.Color) *Layout {
	return &Layout{
		width:      width,
		height:     height,
		splitRatio: splitRatio,
		bg:         bg,
		border:     border,
		fg:         fg,
	}
}

// Calculate returns the content area available to the graph panel when no
// inline modal is showing: the full width, and the height minus the
// one-line action bar.
func (l *Layout) Calculate() (contentW, contentH int) {
	return l.CalculateWithExtra(0)
}

// CalculateWithExtra returns the content area available to the graph panel
// when an inline modal below it consumes `extra` additional rows.
func (l *Layout) CalculateWithExtra(extra int) (contentW, contentH int) {
	contentW = l.width
	contentH = l.height - 1 - extra // 1 row reserved for the action bar
	if contentH < 1 {
		contentH = 1
	}
	return contentW, contentH
}

// RenderWithExtra stacks the graph panel, an optional modal, and the action
// bar into the full terminal frame.
func (l *Layout) RenderWithExtra(mainPanel, extraPanel, actionBar string) string {
	if extraPanel == "" {
		return lipgloss.JoinVertical(lipgloss.Left, mainPanel, actionBar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, mainPanel, extraPanel, actionBar)
}

func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
}
