package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/walker"
	"github.com/lazygit-lite/lazygit-lite/internal/git"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/styles"
)

// GraphRenderer converts the commit-graph engine's already-baked row spans
// (walker.Row.Graph/Branches) into lipgloss-styled lines, plus the side
// panel's diff formatting the teacher's renderer already did.
//
// The lane-assignment algorithm that used to live here (GraphBuilder,
// computeLayout, per-vertex lane snapshots) is gone: the commitgraph engine
// now owns lane assignment and glyph coloring, and publishes the result as
// already-colored layer.Span sequences. This renderer's only remaining job
// is turning those spans into a lipgloss string and padding the graph
// column to a consistent width across rows.
type GraphRenderer struct {
	theme    styles.Theme
	rows     []walker.Row
	maxWidth int // widest baked graph cell count across all rows, for column alignment
}

func NewGraphRenderer(theme styles.Theme) *GraphRenderer {
	return &GraphRenderer{theme: theme}
}

// InitGraph records the engine's rows for rendering. It does no layout work
// itself — that already happened in the commitgraph walker.
func (g *GraphRenderer) InitGraph(rows []walker.Row) {
	g.rows = rows
	g.maxWidth = 0
	for _, r := range rows {
		if n := len(r.Graph); n > g.maxWidth {
			g.maxWidth = n
		}
	}
}

// RenderCommitLine renders one row: the engine's graph cells (each already
// carrying its own lane color), a spacer, the branch/tip chips and commit
// summary, and — when meta is available — a right-aligned relative
// timestamp in the teacher's style.
func (g *GraphRenderer) RenderCommitLine(row walker.Row, meta *git.Commit, maxWidth int, bg lipgloss.Color) string {
	var graphParts []string
	for _, span := range row.Graph {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(span.Color)).Background(bg)
		graphParts = append(graphParts, style.Render(span.Glyph))
	}
	// Pad the graph column to the widest row so every line's branch text
	// starts at the same horizontal offset.
	for len(graphParts) < g.maxWidth {
		graphParts = append(graphParts, lipgloss.NewStyle().Background(bg).Render(" "))
	}
	graphStr := strings.Join(graphParts, "")

	var branchParts []string
	for _, span := range row.Branches {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(span.Color)).Background(bg)
		branchParts = append(branchParts, style.Render(span.Glyph))
	}
	branchStr := strings.Join(branchParts, "")

	spacer := lipgloss.NewStyle().Background(bg).Render(" ")
	line := graphStr + spacer + branchStr

	if meta == nil {
		return padLine(line, maxWidth, bg)
	}

	dateStyle := lipgloss.NewStyle().Foreground(g.theme.Subtext).Background(bg)
	timeStr := dateStyle.Render(formatRelativeTime(meta.Date))
	timeWidth := lipgloss.Width(timeStr)
	lineWidth := lipgloss.Width(line)
	gap := maxWidth - lineWidth - timeWidth - 1
	if gap > 1 {
		line = line + lipgloss.NewStyle().Background(bg).Width(gap).Render("") + timeStr
	}
	return padLine(line, maxWidth, bg)
}

func padLine(line string, maxWidth int, bg lipgloss.Color) string {
	w := lipgloss.Width(line)
	if w < maxWidth {
		line = line + lipgloss.NewStyle().Background(bg).Width(maxWidth-w).Render("")
	}
	return line
}

// MaxLanes reports the graph column's rendered width in characters, for
// callers that need to reserve a matching gutter (e.g. the expanded file
// list below a commit row).
func (g *GraphRenderer) MaxLanes() int {
	width := 0
	for _, r := range g.rows {
		w := 0
		for _, span := range r.Graph {
			w += lipgloss.Width(span.Glyph)
		}
		if w > width {
			width = w
		}
	}
	if width == 0 {
		return 1
	}
	return width
}

// RenderLaneGutter renders a blank gutter the width of the graph column, so
// expanded content (metadata, file list, diffs) lines up under the branch
// text rather than under the lane glyphs. The engine does not expose a
// separate "continuation only" span set for the row after index, so this
// intentionally renders blank rather than attempting to reconstruct
// mid-row lane state.
func (g *GraphRenderer) RenderLaneGutter(index int, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", g.MaxLanes()))
}

// ---------------------------------------------------------------------------
// Side-by-side diff rendering (unchanged concern: formatting raw diff text
// the VCS facade already produced, independent of graph layout)
// ---------------------------------------------------------------------------

type diffLine struct {
	kind    byte // ' ' context, '+' add, '-' remove, '@' hunk header
	content string
	oldNum  int
	newNum  int
}

func parseDiffLines(raw string) []diffLine {
	lines := strings.Split(raw, "\n")
	var result []diffLine
	var oldLine, newLine int

	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git") ||
			strings.HasPrefix(line, "index ") ||
			strings.HasPrefix(line, "---") ||
			strings.HasPrefix(line, "+++") ||
			strings.HasPrefix(line, "new file") ||
			strings.HasPrefix(line, "deleted file") {
			continue
		}

		if strings.HasPrefix(line, "@@") {
			oldLine, newLine = parseHunkHeader(line)
			result = append(result, diffLine{kind: '@', content: line})
			continue
		}

		if strings.HasPrefix(line, "-") {
			result = append(result, diffLine{kind: '-', content: line[1:], oldNum: oldLine})
			oldLine++
		} else if strings.HasPrefix(line, "+") {
			result = append(result, diffLine{kind: '+', content: line[1:], newNum: newLine})
			newLine++
		} else if strings.HasPrefix(line, "\\") {
			result = append(result, diffLine{kind: '\\', content: line})
		} else {
			result = append(result, diffLine{kind: ' ', content: strings.TrimPrefix(line, " "), oldNum: oldLine, newNum: newLine})
			oldLine++
			newLine++
		}
	}
	return result
}

func parseHunkHeader(line string) (oldStart, newStart int) {
	var oldCount, newCount int
	fmt.Sscanf(line, "@@ -%d,%d +%d,%d @@", &oldStart, &oldCount, &newStart, &newCount)
	if oldStart == 0 && newStart == 0 {
		fmt.Sscanf(line, "@@ -%d +%d @@", &oldStart, &newStart)
	}
	if oldStart == 0 && newStart == 0 {
		fmt.Sscanf(line, "@@ -%d,%d +%d @@", &oldStart, &oldCount, &newStart)
	}
	if oldStart == 0 && newStart == 0 {
		fmt.Sscanf(line, "@@ -%d +%d,%d @@", &oldStart, &newStart, &newCount)
	}
	return
}

type sideBySidePair struct {
	leftNum   int
	leftText  string
	leftKind  byte
	rightNum  int
	rightText string
	rightKind byte
}

func buildSideBySidePairs(dlines []diffLine) []sideBySidePair {
	var pairs []sideBySidePair
	i := 0
	for i < len(dlines) {
		dl := dlines[i]

		switch dl.kind {
		case '@':
			pairs = append(pairs, sideBySidePair{
				leftKind: '@', leftText: dl.content,
				rightKind: '@', rightText: dl.content,
			})
			i++

		case ' ':
			pairs = append(pairs, sideBySidePair{
				leftNum: dl.oldNum, leftText: dl.content, leftKind: ' ',
				rightNum: dl.newNum, rightText: dl.content, rightKind: ' ',
			})
			i++

		case '-':
			var removes []diffLine
			for i < len(dlines) && dlines[i].kind == '-' {
				removes = append(removes, dlines[i])
				i++
			}
			var adds []diffLine
			for i < len(dlines) && dlines[i].kind == '+' {
				adds = append(adds, dlines[i])
				i++
			}
			maxLen := len(removes)
			if len(adds) > maxLen {
				maxLen = len(adds)
			}
			for j := 0; j < maxLen; j++ {
				p := sideBySidePair{}
				if j < len(removes) {
					p.leftNum = removes[j].oldNum
					p.leftText = removes[j].content
					p.leftKind = '-'
				}
				if j < len(adds) {
					p.rightNum = adds[j].newNum
					p.rightText = adds[j].content
					p.rightKind = '+'
				}
				pairs = append(pairs, p)
			}

		case '+':
			pairs = append(pairs, sideBySidePair{rightNum: dl.newNum, rightText: dl.content, rightKind: '+'})
			i++

		case '\\':
			pairs = append(pairs, sideBySidePair{leftText: dl.content, leftKind: '\\', rightText: dl.content, rightKind: '\\'})
			i++

		default:
			i++
		}
	}
	return pairs
}

// FormatDiffLines takes a raw diff string and returns styled side-by-side lines.
func (g *GraphRenderer) FormatDiffLines(diff string, maxWidth int) []string {
	if diff == "" {
		return nil
	}

	parsed := parseDiffLines(diff)
	pairs := buildSideBySidePairs(parsed)

	const sepWidth = 1
	const numWidth = 5
	halfWidth := (maxWidth - sepWidth) / 2
	if halfWidth < 10 {
		halfWidth = 10
	}
	contentWidth := halfWidth - numWidth
	if contentWidth < 4 {
		contentWidth = 4
	}

	removeBg := g.theme.DiffRemoveBg
	addBg := g.theme.DiffAddBg

	numStyleOld := lipgloss.NewStyle().Foreground(g.theme.DiffRemove).Background(removeBg).Width(numWidth).Align(lipgloss.Right)
	numStyleNew := lipgloss.NewStyle().Foreground(g.theme.DiffAdd).Background(addBg).Width(numWidth).Align(lipgloss.Right)
	numStyleCtx := lipgloss.NewStyle().Foreground(g.theme.DiffContext).Background(g.theme.Background).Width(numWidth).Align(lipgloss.Right)
	numStyleBlank := lipgloss.NewStyle().Background(g.theme.Background).Width(numWidth)

	removeContentStyle := lipgloss.NewStyle().Foreground(g.theme.DiffRemove).Background(removeBg).Width(contentWidth)
	addContentStyle := lipgloss.NewStyle().Foreground(g.theme.DiffAdd).Background(addBg).Width(contentWidth)
	contextContentStyle := lipgloss.NewStyle().Foreground(g.theme.Foreground).Background(g.theme.Background).Width(contentWidth)
	blankContentStyle := lipgloss.NewStyle().Background(g.theme.Background).Width(contentWidth)

	hunkStyle := lipgloss.NewStyle().Foreground(g.theme.BranchFeature).Background(g.theme.BackgroundPanel).Width(maxWidth)
	sepStyle := lipgloss.NewStyle().Foreground(g.theme.DiffContext).Background(g.theme.Background)
	headerStyle := lipgloss.NewStyle().Foreground(g.theme.Subtext).Background(g.theme.Background).Italic(true).Width(maxWidth)

	sep := sepStyle.Render("│")

	var result []string

	for _, p := range pairs {
		if p.leftKind == '@' {
			result = append(result, hunkStyle.Render(truncate(p.leftText, maxWidth)))
			continue
		}

		if p.leftKind == '\\' || p.rightKind == '\\' {
			result = append(result, headerStyle.Render(truncate(p.leftText, maxWidth)))
			continue
		}

		var leftNum, leftContent string
		switch p.leftKind {
		case '-':
			leftNum = numStyleOld.Render(fmt.Sprintf("%d", p.leftNum))
			leftContent = removeContentStyle.Render(truncate(p.leftText, contentWidth))
		case ' ':
			leftNum = numStyleCtx.Render(fmt.Sprintf("%d", p.leftNum))
			leftContent = contextContentStyle.Render(truncate(p.leftText, contentWidth))
		default:
			leftNum = numStyleBlank.Render("")
			leftContent = blankContentStyle.Render("")
		}

		var rightNum, rightContent string
		switch p.rightKind {
		case '+':
			rightNum = numStyleNew.Render(fmt.Sprintf("%d", p.rightNum))
			rightContent = addContentStyle.Render(truncate(p.rightText, contentWidth))
		case ' ':
			rightNum = numStyleCtx.Render(fmt.Sprintf("%d", p.rightNum))
			rightContent = contextContentStyle.Render(truncate(p.rightText, contentWidth))
		default:
			rightNum = numStyleBlank.Render("")
			rightContent = blankContentStyle.Render("")
		}

		line := leftNum + leftContent + sep + rightNum + rightContent
		result = append(result, line)
	}

	const maxDiffLines = 300
	if len(result) > maxDiffLines {
		result = result[:maxDiffLines]
		result = append(result, headerStyle.Render(fmt.Sprintf("  ... %d more lines (truncated)", len(pairs)-maxDiffLines)))
	}

	return result
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > maxWidth {
		return string(runes[:maxWidth])
	}
	return s
}

func formatRelativeTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(diff.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}
