// Package layer implements the three-layer glyph compositor: Commits,
// Merges, and Pipes are built up independently per row and then baked down
// to one span sequence, commits always masking merges, merges always
// masking pipes.
//
// Ported from the original engine's LayerBuilder/LayersCtx
// (graph/layers.rs): add/commit/pipe/merge/bake map directly onto this
// Compositor's methods.
package layer

import "github.com/lazygit-lite/lazygit-lite/internal/commitgraph/palette"

// Kind names one of the three layers.
type Kind int

const (
	Commits Kind = iota
	Merges
	Pipes
	numLayers
)

// Span is one baked glyph cell.
type Span struct {
	Glyph string
	Color palette.Color
}

type token struct {
	glyph string
	color palette.Color
}

// Compositor accumulates the three layers for one row and bakes them.
type Compositor struct {
	layers [numLayers][]token
	picker *palette.Picker
}

// NewCompositor builds a Compositor backed by picker for default lane
// coloring.
func NewCompositor(picker *palette.Picker) *Compositor {
	return &Compositor{picker: picker}
}

// Clear empties all three layers, preparing the Compositor for the next
// row.
func (c *Compositor) Clear() {
	for k := range c.layers {
		c.layers[k] = c.layers[k][:0]
	}
}

func (c *Compositor) add(layer Kind, glyph string, lane int, custom *palette.Color) {
	col := c.picker.Color(lane)
	if custom != nil {
		col = *custom
	}
	c.layers[layer] = append(c.layers[layer], token{glyph: glyph, color: col})
}

// Commit appends a token to the Commits layer at lane's default color.
func (c *Compositor) Commit(glyph string, lane int) { c.add(Commits, glyph, lane, nil) }

// Pipe appends a token to the Pipes layer at lane's default color.
func (c *Compositor) Pipe(glyph string, lane int) { c.add(Pipes, glyph, lane, nil) }

// Merge appends a token to the Merges layer at lane's default color.
func (c *Compositor) Merge(glyph string, lane int) { c.add(Merges, glyph, lane, nil) }

// PipeCustom appends a token to the Pipes layer with an explicit color,
// overriding the lane's default.
func (c *Compositor) PipeCustom(glyph string, lane int, color palette.Color) {
	c.add(Pipes, glyph, lane, &color)
}

// Bake collapses the three layers into one row of spans. For each token
// index up to the longest layer, the first layer among Commits, Merges,
// Pipes that has a non-whitespace glyph at that index wins; if none do, a
// blank space is emitted.
func (c *Compositor) Bake() []Span {
	maxLen := 0
	for _, l := range c.layers {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}

	spans := make([]Span, 0, maxLen)
	priority := [3]Kind{Commits, Merges, Pipes}
	for i := 0; i < maxLen; i++ {
		glyph := " "
		color := palette.Color("")
		for _, layer := range priority {
			toks := c.layers[layer]
			if i >= len(toks) {
				continue
			}
			if toks[i].glyph != "" && toks[i].glyph != " " {
				glyph = toks[i].glyph
				color = toks[i].color
				break
			}
		}
		spans = append(spans, Span{Glyph: glyph, Color: color})
	}
	return spans
}
