package walker

import (
	"fmt"
	"strings"

	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/layer"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/lane"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/palette"
	"github.com/samber/lo"
)

// textColor matches the original engine's COLOR_TEXT, used for anything
// that is not a lane-colored glyph.
var textColor = palette.Color("#616161")

// greyColor matches the original engine's COLOR_GREY_400, used for the
// uncommitted-row badge.
var greyColor = palette.Color("#BDBDBD")

// RenderGraph is the graph-column render contract: a 6-character id
// abbreviation, a space, then the baked glyph spans.
func RenderGraph(id commitgraph.ID, glyphs []layer.Span) []layer.Span {
	spans := make([]layer.Span, 0, len(glyphs)+2)
	spans = append(spans, layer.Span{Glyph: id.Short(6), Color: textColor})
	spans = append(spans, layer.Span{Glyph: " ", Color: textColor})
	spans = append(spans, glyphs...)
	return spans
}

// RenderBranches is the tip/summary column render contract: one "● <name>"
// chip per tip name (colored with the lane's tip color), then the commit
// summary text.
func RenderBranches(id commitgraph.ID, summary string, tipNames []string, tipColor palette.Color) []layer.Span {
	if tipColor == "" {
		tipColor = palette.Color("#FFFFFF")
	}
	chips := lo.Map(tipNames, func(name string, _ int) layer.Span {
		return layer.Span{Glyph: fmt.Sprintf("%s %s ", commitgraph.SymCommitBranch, name), Color: tipColor}
	})
	spans := append([]layer.Span(nil), chips...)
	spans = append(spans, layer.Span{Glyph: summary, Color: textColor})
	return spans
}

// RenderMessage is the message-column render contract: the summary alone.
func RenderMessage(summary string) []layer.Span {
	return []layer.Span{{Glyph: summary, Color: textColor}}
}

// RenderUncommittedBadge builds the synthetic head row's tip-badge column:
// a dotted-circle marker plus modified/added/deleted counts, each segment
// omitted when zero.
func RenderUncommittedBadge(summary commitgraph.Summary) []layer.Span {
	spans := []layer.Span{{Glyph: commitgraph.SymUncommitted + " ", Color: greyColor}}
	if summary.Modified > 0 {
		spans = append(spans, layer.Span{Glyph: fmt.Sprintf("~%d ", summary.Modified), Color: greyColor})
	}
	if summary.Added > 0 {
		spans = append(spans, layer.Span{Glyph: fmt.Sprintf("+%d ", summary.Added), Color: greyColor})
	}
	if summary.Deleted > 0 {
		spans = append(spans, layer.Span{Glyph: fmt.Sprintf("-%d ", summary.Deleted), Color: greyColor})
	}
	return spans
}

// RenderDiagnostic is the optional diagnostic-column render contract: a
// trace of each live lane's slot id and parent ids, for debugging the
// walker itself. Absence (an empty Buffer) renders an empty line, per
// spec.md §9 Open Question (b).
func RenderDiagnostic(curr []lane.Slot) string {
	if len(curr) == 0 {
		return ""
	}
	parts := make([]string, 0, len(curr))
	for _, s := range curr {
		if s.IsDummy() {
			parts = append(parts, "--,--")
			continue
		}
		parentStrs := make([]string, 0, len(s.Parents))
		for _, p := range s.Parents {
			parentStrs = append(parentStrs, p.Short(2))
		}
		joined := strings.Join(parentStrs, ",")
		if len(s.Parents) == 1 {
			joined += ",--"
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", s.ID.Short(2), joined))
	}
	return strings.Join(parts, " ")
}
