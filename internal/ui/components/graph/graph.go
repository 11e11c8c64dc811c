package graph

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/walker"
	"github.com/lazygit-lite/lazygit-lite/internal/git"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/styles"
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// SelectionChangedMsg is sent when the user moves the cursor to a different row.
type SelectionChangedMsg struct {
	ID      commitgraph.ID
	Message string
}

// FilesLoadedMsg is sent asynchronously after the file list for a commit is loaded.
type FilesLoadedMsg struct {
	Hash  string
	Files []git.ChangedFile
	Err   error
}

// FileDiffLoadedMsg is sent after a per-file diff is loaded.
type FileDiffLoadedMsg struct {
	Hash     string
	FilePath string
	Diff     string
	Err      error
}

// ---------------------------------------------------------------------------
// ExpandState tracks the inline-expand state for a single row.
// ---------------------------------------------------------------------------

type ExpandState struct {
	// Files loaded for this commit.
	Files []git.ChangedFile

	// Index of the cursor inside the file list (-1 = on metadata header).
	FileIndex int

	// Which file path (if any) has its diff expanded.
	ExpandedFile string

	// The formatted diff content for ExpandedFile, split into lines.
	DiffLines []string
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model renders the rows the commit-graph engine has already laid out. It
// owns cursor/scroll/expand navigation; the lane layout itself is entirely
// the engine's doing by the time a Row reaches here.
type Model struct {
	rows     []walker.Row
	meta     map[string]*git.Commit // row ID hex -> full git metadata, for the expand panel
	renderer *GraphRenderer
	theme    styles.Theme
	width    int
	height   int

	// Cursor points at a row index.
	cursor int

	// Scroll offset: the first *visual* line shown in the viewport.
	scrollOffset int

	// Which row index is expanded (-1 = none).
	expandedIdx int

	// Expand state for the currently expanded row.
	expandState *ExpandState

	// Track last cursor for selection-changed detection.
	lastCursor int
}

func New(rows []walker.Row, meta map[string]*git.Commit, theme styles.Theme, width, height int) Model {
	renderer := NewGraphRenderer(theme)
	renderer.InitGraph(rows)

	return Model{
		rows:         rows,
		meta:         meta,
		renderer:     renderer,
		theme:        theme,
		width:        width,
		height:       height,
		cursor:       0,
		scrollOffset: 0,
		expandedIdx:  -1,
		expandState:  nil,
		lastCursor:   0,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case FilesLoadedMsg:
		return m.handleFilesLoaded(msg)

	case FileDiffLoadedMsg:
		return m.handleFileDiffLoaded(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "j", "down":
		return m.moveCursorDown()
	case "k", "up":
		return m.moveCursorUp()
	case "g", "home":
		return m.goToTop()
	case "G", "end":
		return m.goToBottom()
	case "ctrl+d":
		return m.pageDown()
	case "ctrl+u":
		return m.pageUp()
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.collapseExpanded()
		m.scrollOffset -= 3
		if m.scrollOffset < 0 {
			m.scrollOffset = 0
		}
		if m.cursor > m.scrollOffset+m.height-1 {
			m.cursor = m.scrollOffset + m.height - 1
		}
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor < m.scrollOffset {
			m.cursor = m.scrollOffset
		}
		return m.emitSelectionChanged()
	case msg.Button == tea.MouseButtonWheelDown:
		m.collapseExpanded()
		m.scrollOffset += 3
		m.clampScroll()
		if m.cursor < m.scrollOffset {
			m.cursor = m.scrollOffset
		}
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor > m.scrollOffset+m.height-1 {
			m.cursor = m.scrollOffset + m.height - 1
		}
		return m.emitSelectionChanged()
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
		return m.handleClick(msg.Y)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Navigation helpers
// ---------------------------------------------------------------------------

func (m Model) moveCursorDown() (Model, tea.Cmd) {
	if m.isExpanded() {
		es := m.expandState

		if es.ExpandedFile != "" && len(es.DiffLines) > 0 {
			lastDiffVisLine := m.expandedFileDiffEndVisLine()
			if lastDiffVisLine >= m.scrollOffset+m.height {
				m.scrollOffset++
				m.clampScroll()
				return m, nil
			}
			es.ExpandedFile = ""
			es.DiffLines = nil
			if es.FileIndex < len(es.Files)-1 {
				es.FileIndex++
				m.ensureCursorVisible()
				return m, nil
			}
			m.collapseExpanded()
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.ensureCursorVisible()
				return m.emitSelectionChanged()
			}
			return m, nil
		}

		if es.FileIndex < len(es.Files)-1 {
			es.FileIndex++
			m.ensureCursorVisible()
			return m, nil
		}
		m.collapseExpanded()
	}

	if m.cursor < len(m.rows)-1 {
		m.cursor++
		m.ensureCursorVisible()
		return m.emitSelectionChanged()
	}
	return m, nil
}

func (m Model) moveCursorUp() (Model, tea.Cmd) {
	if m.isExpanded() {
		es := m.expandState

		if es.ExpandedFile != "" && len(es.DiffLines) > 0 {
			fileEntryVisLine := m.cursorVisualLine()
			if fileEntryVisLine < m.scrollOffset {
				m.scrollOffset--
				if m.scrollOffset < 0 {
					m.scrollOffset = 0
				}
				return m, nil
			}
			es.ExpandedFile = ""
			es.DiffLines = nil
			m.ensureCursorVisible()
			return m, nil
		}

		if es.FileIndex > -1 {
			es.FileIndex--
			m.ensureCursorVisible()
			return m, nil
		}
		m.collapseExpanded()
		m.ensureCursorVisible()
		return m, nil
	}

	if m.cursor > 0 {
		m.cursor--
		m.ensureCursorVisible()
		return m.emitSelectionChanged()
	}
	return m, nil
}

func (m Model) goToTop() (Model, tea.Cmd) {
	m.collapseExpanded()
	m.cursor = 0
	m.scrollOffset = 0
	return m.emitSelectionChanged()
}

func (m Model) goToBottom() (Model, tea.Cmd) {
	m.collapseExpanded()
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
	}
	m.ensureCursorVisible()
	return m.emitSelectionChanged()
}

func (m Model) pageDown() (Model, tea.Cmd) {
	m.collapseExpanded()
	m.cursor += m.height / 2
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
	return m.emitSelectionChanged()
}

func (m Model) pageUp() (Model, tea.Cmd) {
	m.collapseExpanded()
	m.cursor -= m.height / 2
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
	return m.emitSelectionChanged()
}

func (m Model) handleClick(y int) (Model, tea.Cmd) {
	targetVisLine := m.scrollOffset + y
	visLine := 0

	for i := 0; i < len(m.rows); i++ {
		if visLine == targetVisLine {
			if m.cursor != i {
				m.collapseExpanded()
				m.cursor = i
				return m.emitSelectionChanged()
			}
			return m, nil
		}
		visLine++ // commit line itself

		if i == m.expandedIdx && m.expandState != nil {
			expandLines := m.expandedLineCount()
			if targetVisLine > visLine-1 && targetVisLine < visLine+expandLines {
				localLine := targetVisLine - visLine
				metaLines := m.metadataLineCount()
				if localLine < metaLines {
					m.expandState.FileIndex = -1
					return m, nil
				}
				fileClickLine := localLine - metaLines
				fileLine := 0
				for fi := 0; fi < len(m.expandState.Files); fi++ {
					if fileLine == fileClickLine {
						m.expandState.FileIndex = fi
						return m, nil
					}
					fileLine++
					if m.expandState.Files[fi].Path == m.expandState.ExpandedFile && len(m.expandState.DiffLines) > 0 {
						fileLine += len(m.expandState.DiffLines)
					}
				}
				return m, nil
			}
			visLine += expandLines
		}
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Expand / Collapse
// ---------------------------------------------------------------------------

// ToggleExpand is called by the parent model when Enter is pressed.
// Returns a command to load files if expanding.
func (m *Model) ToggleExpand(repo *git.Repository) tea.Cmd {
	if m.isExpanded() {
		if m.expandedIdx == m.cursor {
			es := m.expandState
			if es.FileIndex >= 0 && es.FileIndex < len(es.Files) {
				file := es.Files[es.FileIndex]
				if es.ExpandedFile == file.Path {
					es.ExpandedFile = ""
					es.DiffLines = nil
					return nil
				}
				es.ExpandedFile = file.Path
				es.DiffLines = nil
				hash := m.rows[m.cursor].ID.String()
				filePath := file.Path
				if m.rows[m.cursor].ID == commitgraph.Zero {
					return func() tea.Msg {
						diff, err := repo.GetWorkingTreeFileDiff(filePath)
						return FileDiffLoadedMsg{Hash: hash, FilePath: filePath, Diff: diff, Err: err}
					}
				}
				return func() tea.Msg {
					diff, err := repo.GetFileDiff(hash, filePath)
					return FileDiffLoadedMsg{Hash: hash, FilePath: filePath, Diff: diff, Err: err}
				}
			}
			m.collapseExpanded()
			return nil
		}
		m.collapseExpanded()
	}

	m.expandedIdx = m.cursor
	m.expandState = &ExpandState{
		FileIndex: -1,
	}
	hash := m.rows[m.cursor].ID.String()
	if m.rows[m.cursor].ID == commitgraph.Zero {
		return func() tea.Msg {
			files, err := repo.GetWorkingTreeFiles()
			return FilesLoadedMsg{Hash: hash, Files: files, Err: err}
		}
	}
	return func() tea.Msg {
		files, err := repo.GetChangedFiles(hash)
		return FilesLoadedMsg{Hash: hash, Files: files, Err: err}
	}
}

func (m *Model) collapseExpanded() {
	m.expandedIdx = -1
	m.expandState = nil
}

// Collapse unconditionally closes any expanded commit.
func (m *Model) Collapse() {
	m.collapseExpanded()
}

func (m Model) isExpanded() bool {
	return m.expandedIdx >= 0 && m.expandState != nil
}

// ---------------------------------------------------------------------------
// Message handlers for async loads
// ---------------------------------------------------------------------------

func (m Model) handleFilesLoaded(msg FilesLoadedMsg) (Model, tea.Cmd) {
	if m.expandedIdx < 0 || m.expandedIdx >= len(m.rows) {
		return m, nil
	}
	if m.rows[m.expandedIdx].ID.String() != msg.Hash {
		return m, nil
	}
	m.expandState.Files = msg.Files
	if len(msg.Files) > 0 {
		m.expandState.FileIndex = 0
	}
	m.ensureExpandedVisible()
	return m, nil
}

func (m Model) handleFileDiffLoaded(msg FileDiffLoadedMsg) (Model, tea.Cmd) {
	if m.expandState == nil {
		return m, nil
	}
	if m.expandedIdx < 0 || m.expandedIdx >= len(m.rows) {
		return m, nil
	}
	if m.rows[m.expandedIdx].ID.String() != msg.Hash || m.expandState.ExpandedFile != msg.FilePath {
		return m, nil
	}
	gutterWidth := m.renderer.MaxLanes()
	if gutterWidth < 1 {
		gutterWidth = 1
	}
	diffWidth := m.width - gutterWidth
	if diffWidth < 20 {
		diffWidth = 20
	}
	m.expandState.DiffLines = m.renderer.FormatDiffLines(msg.Diff, diffWidth)
	m.clampScroll()
	return m, nil
}

// ---------------------------------------------------------------------------
// Emit selection changed
// ---------------------------------------------------------------------------

func (m Model) emitSelectionChanged() (Model, tea.Cmd) {
	if m.cursor == m.lastCursor {
		return m, nil
	}
	m.lastCursor = m.cursor
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return m, nil
	}
	row := m.rows[m.cursor]
	return m, func() tea.Msg {
		return SelectionChangedMsg{ID: row.ID, Message: row.Message}
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() string {
	if len(m.rows) == 0 {
		return "No commits"
	}

	m.clampScroll()

	var lines []string
	visLine := 0

	for i := 0; i < len(m.rows); i++ {
		commitLine := m.renderCommitRow(i)
		if visLine >= m.scrollOffset && visLine < m.scrollOffset+m.height {
			lines = append(lines, commitLine)
		}
		visLine++

		if i == m.expandedIdx && m.expandState != nil {
			expandLines := m.renderExpandedContent(i)
			for _, el := range expandLines {
				if visLine >= m.scrollOffset && visLine < m.scrollOffset+m.height {
					lines = append(lines, el)
				}
				visLine++
			}
		}

		if len(lines) >= m.height {
			break
		}
	}

	emptyLine := lipgloss.NewStyle().
		Background(m.theme.Background).
		Width(m.width).
		Render("")
	for len(lines) < m.height {
		lines = append(lines, emptyLine)
	}

	return strings.Join(lines[:m.height], "\n")
}

// ---------------------------------------------------------------------------
// Render helpers
// ---------------------------------------------------------------------------

func (m Model) metaFor(idx int) *git.Commit {
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}
	return m.meta[m.rows[idx].ID.String()]
}

func (m Model) renderCommitRow(idx int) string {
	row := m.rows[idx]

	isSelected := idx == m.cursor && (!m.isExpanded() || m.expandState.FileIndex == -1)
	isSelectedFinal := isSelected && (!m.isExpanded() || (m.isExpanded() && m.expandedIdx == m.cursor && m.expandState.FileIndex == -1))
	isExpandedHeader := idx == m.expandedIdx && m.isExpanded()

	var rowBg lipgloss.Color
	if isSelectedFinal {
		rowBg = m.theme.Selection
	} else if isExpandedHeader {
		rowBg = m.theme.BackgroundPanel
	} else {
		rowBg = m.theme.Background
	}

	line := m.renderer.RenderCommitLine(row, m.metaFor(idx), m.width, rowBg)

	visWidth := lipgloss.Width(line)
	if visWidth < m.width {
		line = line + lipgloss.NewStyle().Background(rowBg).Width(m.width-visWidth).Render("")
	}

	if isSelectedFinal {
		line = lipgloss.NewStyle().
			Background(m.theme.Selection).
			Bold(true).
			Width(m.width).
			Render(line)
	} else if isExpandedHeader {
		line = lipgloss.NewStyle().
			Background(m.theme.BackgroundPanel).
			Width(m.width).
			Render(line)
	} else {
		line = lipgloss.NewStyle().
			Background(m.theme.Background).
			Width(m.width).
			Render(line)
	}

	return line
}

func (m Model) renderExpandedContent(commitIdx int) []string {
	if m.expandState == nil {
		return nil
	}

	panelBg := m.theme.BackgroundPanel
	gutter := m.renderer.RenderLaneGutter(commitIdx, panelBg)
	gutterWidth := lipgloss.Width(gutter)

	m.width = m.width - gutterWidth
	if m.width < 20 {
		m.width = 20
	}

	var lines []string

	row := m.rows[commitIdx]
	meta := m.metaFor(commitIdx)

	metaLines := m.renderMetadata(row, meta)
	for _, ml := range metaLines {
		lines = append(lines, gutter+ml)
	}

	for fi, file := range m.expandState.Files {
		fileLine := m.renderFileEntry(fi, file)
		lines = append(lines, gutter+fileLine)

		if file.Path == m.expandState.ExpandedFile && len(m.expandState.DiffLines) > 0 {
			for _, dl := range m.expandState.DiffLines {
				lines = append(lines, gutter+dl)
			}
		}
	}

	return lines
}

func (m Model) renderMetadata(row walker.Row, meta *git.Commit) []string {
	indent := "    "
	panelBg := m.theme.BackgroundPanel
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.Subtext).Background(panelBg)
	valueStyle := lipgloss.NewStyle().Foreground(m.theme.Foreground).Background(panelBg)
	hashStyle := lipgloss.NewStyle().Foreground(m.theme.CommitHash).Background(panelBg).Bold(true)
	authorStyle := lipgloss.NewStyle().Foreground(m.theme.BranchMain).Background(panelBg).Bold(true)
	emailStyle := lipgloss.NewStyle().Foreground(m.theme.Subtext).Background(panelBg)
	dateStyle := lipgloss.NewStyle().Foreground(m.theme.Foreground).Background(panelBg)
	bgStyle := lipgloss.NewStyle().Background(panelBg)
	indentStr := bgStyle.Render(indent)
	spacer := bgStyle.Render("  ")

	isUncommitted := row.ID == commitgraph.Zero

	maxContent := m.width - len(indent)
	if maxContent < 10 {
		maxContent = 10
	}

	padToWidth := func(line string) string {
		w := lipgloss.Width(line)
		if w < m.width {
			return line + bgStyle.Width(m.width-w).Render("")
		}
		return line
	}

	truncStr := func(s string, n int) string {
		runes := []rune(s)
		if len(runes) > n && n > 1 {
			return string(runes[:n-1]) + "…"
		}
		return s
	}

	var lines []string

	if isUncommitted {
		uncommittedColor := m.theme.CommitHash
		uncommittedStyle := lipgloss.NewStyle().Foreground(uncommittedColor).Background(panelBg).Bold(true)
		line1 := indentStr + uncommittedStyle.Render("Uncommitted changes") + spacer + labelStyle.Render("(working tree)")
		lines = append(lines, bgStyle.Width(m.width).Render(padToWidth(line1)))
	} else if meta == nil {
		// Engine row with no matching git metadata (shallow history, or the
		// side-channel lookup hasn't caught up yet) — degrade to hash+message.
		line1 := indentStr + labelStyle.Render("Commit:") + bgStyle.Render(" ") + hashStyle.Render(row.ID.Short(10)) + spacer +
			labelStyle.Render("Msg:") + bgStyle.Render(" ") + valueStyle.Render(truncStr(row.Message, maxContent/2))
		lines = append(lines, bgStyle.Width(m.width).Render(padToWidth(line1)))
	} else {
		authorDisplay := truncStr(meta.Author, maxContent/3)
		emailDisplay := truncStr("<"+meta.Email+">", maxContent/3)
		line1 := indentStr +
			labelStyle.Render("Commit:") + bgStyle.Render(" ") +
			hashStyle.Render(row.ID.Short(10)) + spacer +
			labelStyle.Render("Author:") + bgStyle.Render(" ") +
			authorStyle.Render(authorDisplay) + bgStyle.Render(" ") +
			emailStyle.Render(emailDisplay)
		lines = append(lines, bgStyle.Width(m.width).Render(padToWidth(line1)))

		dateStr := meta.Date.Format("2006-01-02 15:04:05")
		subjectAvail := maxContent - 42
		if subjectAvail < 8 {
			subjectAvail = 8
		}
		subjectDisplay := truncStr(row.Message, subjectAvail)
		line2 := indentStr +
			labelStyle.Render("Date:") + bgStyle.Render(" ") +
			dateStyle.Render(dateStr) + spacer +
			labelStyle.Render("Msg:") + bgStyle.Render(" ") +
			valueStyle.Render(subjectDisplay)
		lines = append(lines, bgStyle.Width(m.width).Render(padToWidth(line2)))

		if len(meta.Refs) > 0 {
			var refParts []string
			for _, ref := range meta.Refs {
				switch ref.RefType {
				case git.RefTypeBranch:
					if ref.IsHead {
						refParts = append(refParts, lipgloss.NewStyle().
							Foreground(m.theme.Head).Background(panelBg).Bold(true).Render("HEAD -> "+ref.Name))
					} else {
						refParts = append(refParts, lipgloss.NewStyle().
							Foreground(m.theme.BranchMain).Background(panelBg).Render(ref.Name))
					}
				case git.RefTypeTag:
					refParts = append(refParts, lipgloss.NewStyle().
						Foreground(m.theme.Tag).Background(panelBg).Render("tag: "+ref.Name))
				}
			}
			if len(refParts) > 0 {
				commaStyle := bgStyle
				line3 := indentStr + labelStyle.Render("Refs:") + bgStyle.Render(" ") + strings.Join(refParts, commaStyle.Render(", "))
				lines = append(lines, bgStyle.Width(m.width).Render(padToWidth(line3)))
			}
		}
	}

	filesHeader := indentStr + labelStyle.Render(fmt.Sprintf("Changed files (%d):", len(m.expandState.Files)))
	lines = append(lines, bgStyle.Width(m.width).Render(padToWidth(filesHeader)))

	return lines
}

func (m Model) renderFileEntry(fileIdx int, file git.ChangedFile) string {
	indent := "      "

	isFileSelected := m.expandState != nil && m.expandState.FileIndex == fileIdx && m.expandedIdx == m.cursor
	var bg lipgloss.Color
	if isFileSelected {
		bg = m.theme.Selection
	} else {
		bg = m.theme.Background
	}

	var statusIcon string
	var statusColor lipgloss.Color
	switch file.Status {
	case "A":
		statusIcon = "+"
		statusColor = m.theme.DiffAdd
	case "D":
		statusIcon = "-"
		statusColor = m.theme.DiffRemove
	case "M":
		statusIcon = "~"
		statusColor = m.theme.CommitHash
	case "?":
		statusIcon = "?"
		statusColor = m.theme.DiffAdd
	default:
		statusIcon = "?"
		statusColor = m.theme.Subtext
	}

	bgStyle := lipgloss.NewStyle().Background(bg)
	statusStyle := lipgloss.NewStyle().Foreground(statusColor).Background(bg).Bold(true)
	fileStyle := lipgloss.NewStyle().Foreground(m.theme.Foreground).Background(bg)

	isFileExpanded := m.expandState != nil && m.expandState.ExpandedFile == file.Path
	expandIndicator := " "
	if isFileExpanded {
		expandIndicator = "▼"
	} else if m.expandState != nil && m.expandState.FileIndex == fileIdx {
		expandIndicator = "▸"
	}

	indicatorStyle := lipgloss.NewStyle().Foreground(m.theme.Subtext).Background(bg)

	addStyle := lipgloss.NewStyle().Foreground(m.theme.DiffAdd).Background(bg)
	delStyle := lipgloss.NewStyle().Foreground(m.theme.DiffRemove).Background(bg)
	var statsStr string
	statsWidth := 0
	if file.Additions > 0 || file.Deletions > 0 {
		addText := fmt.Sprintf("+%d", file.Additions)
		delText := fmt.Sprintf("-%d", file.Deletions)
		statsStr = bgStyle.Render(" ") + addStyle.Render(addText) + bgStyle.Render(" ") + delStyle.Render(delText)
		statsWidth = 1 + len(addText) + 1 + len(delText)
	}

	pathAvail := m.width - 10 - statsWidth
	if pathAvail < 8 {
		pathAvail = 8
	}
	displayPath := file.Path
	pathRunes := []rune(displayPath)
	if len(pathRunes) > pathAvail {
		displayPath = "…" + string(pathRunes[len(pathRunes)-pathAvail+1:])
	}

	line := bgStyle.Render(indent) +
		indicatorStyle.Render(expandIndicator) + bgStyle.Render(" ") +
		statusStyle.Render(statusIcon) + bgStyle.Render(" ") +
		fileStyle.Render(displayPath) +
		statsStr

	visWidth := lipgloss.Width(line)
	if visWidth < m.width {
		line = line + bgStyle.Width(m.width-visWidth).Render("")
	}

	if isFileSelected {
		line = lipgloss.NewStyle().
			Background(m.theme.Selection).
			Bold(true).
			Width(m.width).
			Render(line)
	} else {
		line = lipgloss.NewStyle().
			Background(bg).
			Width(m.width).
			Render(line)
	}

	return line
}

// ---------------------------------------------------------------------------
// Scroll management
// ---------------------------------------------------------------------------

func (m *Model) ensureCursorVisible() {
	cursorVisLine := m.cursorVisualLine()

	if cursorVisLine < m.scrollOffset {
		m.scrollOffset = cursorVisLine
	}
	if cursorVisLine >= m.scrollOffset+m.height {
		m.scrollOffset = cursorVisLine - m.height + 1
	}
	m.clampScroll()
}

func (m *Model) ensureExpandedVisible() {
	cursorVisLine := m.cursorVisualLine()
	if cursorVisLine >= m.scrollOffset+m.height {
		m.scrollOffset = cursorVisLine - m.height + 1
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	totalLines := m.totalVisualLines()
	maxScroll := totalLines - m.height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scrollOffset > maxScroll {
		m.scrollOffset = maxScroll
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m Model) cursorVisualLine() int {
	visLine := 0
	for i := 0; i < len(m.rows); i++ {
		if i == m.cursor {
			if m.isExpanded() && m.expandedIdx == m.cursor && m.expandState.FileIndex >= 0 {
				visLine++
				visLine += m.metadataLineCount()
				for fi := 0; fi < m.expandState.FileIndex; fi++ {
					visLine++
					if m.expandState.Files[fi].Path == m.expandState.ExpandedFile && len(m.expandState.DiffLines) > 0 {
						visLine += len(m.expandState.DiffLines)
					}
				}
				return visLine
			}
			return visLine
		}
		visLine++
		if i == m.expandedIdx && m.expandState != nil {
			visLine += m.expandedLineCount()
		}
	}
	return visLine
}

func (m Model) expandedFileDiffEndVisLine() int {
	if !m.isExpanded() || m.expandState == nil || m.expandState.ExpandedFile == "" || len(m.expandState.DiffLines) == 0 {
		return 0
	}
	visLine := m.cursorVisualLine()
	visLine += len(m.expandState.DiffLines)
	return visLine
}

func (m Model) totalVisualLines() int {
	total := len(m.rows)
	if m.isExpanded() {
		total += m.expandedLineCount()
	}
	return total
}

func (m Model) expandedLineCount() int {
	if m.expandState == nil {
		return 0
	}
	count := m.metadataLineCount()
	for _, file := range m.expandState.Files {
		count++
		if file.Path == m.expandState.ExpandedFile && len(m.expandState.DiffLines) > 0 {
			count += len(m.expandState.DiffLines)
		}
	}
	return count
}

func (m Model) metadataLineCount() int {
	if m.expandState == nil || m.expandedIdx < 0 || m.expandedIdx >= len(m.rows) {
		return 0
	}
	row := m.rows[m.expandedIdx]

	if row.ID == commitgraph.Zero {
		return 2 // header line + files header
	}

	meta := m.metaFor(m.expandedIdx)
	if meta == nil {
		return 2 // hash+message line + files header
	}

	count := 3 // hash+author, date+msg, files header
	if len(meta.Refs) > 0 {
		count++
	}
	return count
}

// ---------------------------------------------------------------------------
// Public API
// ---------------------------------------------------------------------------

// SelectedID returns the engine id of the row under the cursor.
func (m Model) SelectedID() (commitgraph.ID, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor].ID, true
	}
	return commitgraph.ID{}, false
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetRows replaces the row list and rebuilds the graph renderer, while
// trying to preserve the cursor position and expanded state. If the
// previously selected row still exists in the new list, the cursor is
// placed on it.
func (m *Model) SetRows(rows []walker.Row, meta map[string]*git.Commit) {
	var prevHash string
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		prevHash = m.rows[m.cursor].ID.String()
	}

	var expandedHash string
	if m.expandedIdx >= 0 && m.expandedIdx < len(m.rows) {
		expandedHash = m.rows[m.expandedIdx].ID.String()
	}

	prevScroll := m.scrollOffset

	m.rows = rows
	m.meta = meta
	m.renderer.InitGraph(rows)

	cursorPreserved := false
	newCursor := -1
	if prevHash != "" {
		for i, r := range rows {
			if r.ID.String() == prevHash {
				newCursor = i
				break
			}
		}
	}
	if newCursor >= 0 {
		cursorPreserved = (newCursor == m.cursor)
		m.cursor = newCursor
	} else if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	}
	m.lastCursor = m.cursor

	expandPreserved := false
	if expandedHash != "" {
		newExpandedIdx := -1
		for i, r := range rows {
			if r.ID.String() == expandedHash {
				newExpandedIdx = i
				break
			}
		}
		if newExpandedIdx >= 0 {
			expandPreserved = (newExpandedIdx == m.expandedIdx)
			m.expandedIdx = newExpandedIdx
		} else {
			m.expandedIdx = -1
			m.expandState = nil
		}
	}

	if cursorPreserved && expandPreserved {
		m.scrollOffset = prevScroll
		m.clampScroll()
	} else {
		m.ensureCursorVisible()
	}
}

func (m Model) MaxLanes() int {
	return m.renderer.MaxLanes()
}

func (m Model) Index() int {
	return m.cursor
}

func (m Model) IsExpanded() bool {
	return m.isExpanded()
}

func (m Model) ExpandedIdx() int {
	return m.expandedIdx
}

func (m *Model) ExpandState() *ExpandState {
	return m.expandState
}
