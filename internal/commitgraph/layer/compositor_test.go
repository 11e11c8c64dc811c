package layer

import (
	"testing"

	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/palette"
	"github.com/stretchr/testify/require"
)

// P5 (layer priority): every non-space cell on Commits masks Merges and
// Pipes at the same position; Merges masks Pipes when Commits is blank.
func TestBakePriorityCommitsOverMergesOverPipes(t *testing.T) {
	c := NewCompositor(palette.NewPicker())

	c.Commit("●", 0) // position 0: Commits wins
	c.Merge(" ", 0)
	c.Pipe("│", 0)

	c.Commit(" ", 1) // position 1: Commits blank, Merges wins
	c.Merge("─", 1)
	c.Pipe("│", 1)

	c.Commit(" ", 2) // position 2: both blank, Pipes wins
	c.Merge(" ", 2)
	c.Pipe("┊", 2)

	spans := c.Bake()
	require.Len(t, spans, 3)
	require.Equal(t, "●", spans[0].Glyph)
	require.Equal(t, "─", spans[1].Glyph)
	require.Equal(t, "┊", spans[2].Glyph)
}

func TestBakeAllBlankEmitsSpace(t *testing.T) {
	c := NewCompositor(palette.NewPicker())
	c.Commit(" ", 0)
	c.Pipe(" ", 0)

	spans := c.Bake()
	require.Len(t, spans, 1)
	require.Equal(t, " ", spans[0].Glyph)
}

func TestClearResetsAllLayers(t *testing.T) {
	c := NewCompositor(palette.NewPicker())
	c.Commit("●", 0)
	c.Clear()
	require.Empty(t, c.Bake())
}
