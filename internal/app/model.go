package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/driver"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/walker"
	"github.com/lazygit-lite/lazygit-lite/internal/config"
	"github.com/lazygit-lite/lazygit-lite/internal/git"
	"github.com/lazygit-lite/lazygit-lite/internal/logging"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/components/actionbar"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/components/details"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/components/graph"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/components/modals"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/keys"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/layout"
	"github.com/lazygit-lite/lazygit-lite/internal/ui/styles"
	"github.com/lazygit-lite/lazygit-lite/internal/vcs"
	"github.com/rs/zerolog"
)

// diagnosticPanelRows is the total rendered height (including border) of
// the lane-diagnostic panel when toggled on.
const diagnosticPanelRows = 10

type Model struct {
	config *config.Config
	repo   *git.Repository
	vcs    *vcs.Repository
	driver *driver.Driver
	log    zerolog.Logger

	styles *styles.Styles
	layout *layout.Layout
	keyMap keys.KeyMap

	graphPanel graph.Model
	actionBar  actionbar.Model

	commitModal modals.CommitModal
	helpModal   modals.HelpModal
	branchModal modals.BranchModal
	diagPanel   details.Model

	// Engine state, kept independently of the graph panel so a snapshot
	// arriving before the first WindowSizeMsg has somewhere to land.
	rows    []walker.Row
	tips    commitgraph.TipMap
	meta    map[string]*git.Commit
	ch      <-chan driver.Snapshot
	runID   uuid.UUID

	width  int
	height int
	ready  bool
}

func New(cfg *config.Config, repoPath string) (*Model, error) {
	repo, err := git.OpenRepository(repoPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		log = zerolog.Nop()
	}

	src := vcs.New(repo)
	drv := driver.New(src,
		driver.WithBatchSize(cfg.CommitGraph.BatchSize),
		driver.WithDiagnostic(cfg.CommitGraph.Diagnostic),
		driver.WithLogger(log),
	)

	theme := styles.GetTheme(cfg.UI.Theme)
	st := styles.NewStyles(theme)

	return &Model{
		config:      cfg,
		repo:        repo,
		vcs:         src,
		driver:      drv,
		log:         log,
		styles:      st,
		keyMap:      keys.DefaultKeyMap(),
		commitModal: modals.NewCommitModal(st),
		helpModal:   modals.NewHelpModal(st),
		branchModal: modals.NewBranchModal(st),
		diagPanel:   details.New(st, 0, 0),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.commitModal.Init(),
		m.startGraphCmd(),
		m.loadMetaCmd(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.commitModal.IsVisible() {
			return m.handleCommitModal(msg)
		}

		if m.branchModal.IsVisible() {
			return m.handleBranchModal(msg)
		}

		if m.helpModal.IsVisible() {
			if keys.MatchesKey(msg, m.keyMap.Help) || msg.String() == "esc" {
				m.helpModal.Toggle()
				m.recalcGraphSize()
				return m, nil
			}
			return m, nil
		}

		return m.handleKey(msg)

	case graphStartedMsg:
		m.ch = msg.ch
		m.runID = msg.runID
		return m, m.waitForSnapshotCmd()

	case graphSnapshotMsg:
		return m.handleGraphSnapshot(msg)

	case graphDoneMsg:
		return m, nil

	case metaLoadedMsg:
		return m.handleMetaLoaded(msg)

	case operationResultMsg:
		return m.handleOperationResult(msg)

	case clearMessageMsg:
		m.actionBar.ClearMessage()
		return m, nil

	case branchesLoadedMsg:
		return m.handleBranchesLoaded(msg)

	case graph.SelectionChangedMsg:
		m.updateDiagnostic(msg.ID)
		return m, nil

	case graph.FilesLoadedMsg, graph.FileDiffLoadedMsg:
		switch typedMsg := msg.(type) {
		case graph.FilesLoadedMsg:
			if typedMsg.Err != nil {
				m.actionBar.SetMessage("Failed to load files: " + typedMsg.Err.Error())
				return m, m.clearMessageAfter(3 * time.Second)
			}
		case graph.FileDiffLoadedMsg:
			if typedMsg.Err != nil {
				m.actionBar.SetMessage("Failed to load diff: " + typedMsg.Err.Error())
				return m, m.clearMessageAfter(3 * time.Second)
			}
		}
		var cmd tea.Cmd
		m.graphPanel, cmd = m.graphPanel.Update(msg)
		return m, cmd
	}

	if m.ready {
		var cmd tea.Cmd
		m.graphPanel, cmd = m.graphPanel.Update(msg)
		if cmd != nil {
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	mainPanel := m.graphPanel.View()
	actionBarView := m.actionBar.View()

	var extraPanel string
	if m.commitModal.IsVisible() {
		extraPanel = m.commitModal.View()
	} else if m.branchModal.IsVisible() {
		extraPanel = m.branchModal.View()
	} else if m.helpModal.IsVisible() {
		extraPanel = m.helpModal.View()
	} else if m.diagPanel.IsVisible() {
		extraPanel = m.diagPanel.View()
	}

	return m.layout.RenderWithExtra(mainPanel, extraPanel, actionBarView)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	if !m.ready {
		m.layout = layout.New(m.width, m.height, m.config.Layout.SplitRatio,
			m.styles.Theme.Background, m.styles.Theme.Border, m.styles.Theme.Foreground)
		contentW, contentH := m.layout.Calculate()

		m.graphPanel = graph.New(m.rows, m.meta, m.styles.Theme, contentW, contentH)
		m.actionBar = actionbar.New(m.styles, m.width)

		m.updateBranchInfo()

		m.commitModal.SetSize(m.width, m.height)
		m.helpModal.SetSize(m.width, m.height)
		m.branchModal.SetSize(m.width, m.height)
		m.diagPanel.SetSize(m.width, diagnosticPanelRows)

		m.ready = true
	} else {
		m.layout.SetSize(m.width, m.height)
		contentW, contentH := m.layout.Calculate()

		m.graphPanel.SetSize(contentW, contentH)
		m.actionBar.SetWidth(m.width)
		m.commitModal.SetSize(m.width, m.height)
		m.helpModal.SetSize(m.width, m.height)
		m.branchModal.SetSize(m.width, m.height)
		m.diagPanel.SetSize(m.width, diagnosticPanelRows)
	}

	return m, nil
}

// recalcGraphSize recalculates the graph panel dimensions based on the current
// visibility of inline panels (commit input, help). Call this whenever a modal
// is toggled so the graph's scroll and rendering use the correct height.
func (m *Model) recalcGraphSize() {
	if m.layout == nil {
		return
	}
	extra := m.commitModal.Height() + m.helpModal.Height() + m.branchModal.Height() + m.diagPanel.Height()

	_, testH := m.layout.CalculateWithExtra(extra)
	if testH <= 3 && m.helpModal.IsVisible() {
		m.helpModal.Toggle()
		extra = m.commitModal.Height() + m.helpModal.Height() + m.branchModal.Height() + m.diagPanel.Height()
	}

	contentW, contentH := m.layout.CalculateWithExtra(extra)
	m.graphPanel.SetSize(contentW, contentH)
}

func (m *Model) updateBranchInfo() {
	branches, err := m.repo.GetBranches()
	if err != nil {
		return
	}
	for _, b := range branches {
		if b.IsHead {
			m.actionBar.SetBranch(b.Name)
			return
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keys.MatchesKey(msg, m.keyMap.Quit) {
		m.driver.Cancel()
		return m, tea.Quit
	}

	if keys.MatchesKey(msg, m.keyMap.Help) {
		m.helpModal.Toggle()
		m.recalcGraphSize()
		return m, nil
	}

	if keys.MatchesKey(msg, m.keyMap.Commit) {
		m.commitModal.Show()
		m.recalcGraphSize()
		return m, nil
	}

	if keys.MatchesKey(msg, m.keyMap.Push) {
		m.actionBar.SetMessage("Pushing...")
		return m, m.pushCmd()
	}

	if keys.MatchesKey(msg, m.keyMap.Pull) {
		m.actionBar.SetMessage("Pulling...")
		return m, m.pullCmd()
	}

	if keys.MatchesKey(msg, m.keyMap.Fetch) {
		m.actionBar.SetMessage("Fetching...")
		return m, m.fetchCmd()
	}

	if keys.MatchesKey(msg, m.keyMap.Branch) {
		return m, m.showBranchPickerCmd()
	}

	if keys.MatchesKey(msg, m.keyMap.Enter) {
		cmd := m.graphPanel.ToggleExpand(m.repo)
		return m, cmd
	}

	if msg.String() == "esc" {
		if m.graphPanel.IsExpanded() {
			m.graphPanel.ToggleExpand(m.repo)
			return m, nil
		}
		return m, nil
	}

	if keys.MatchesKey(msg, m.keyMap.CopyHash) {
		return m.handleCopyHash()
	}

	if keys.MatchesKey(msg, m.keyMap.CopyMessage) {
		return m.handleCopyMessage()
	}

	if keys.MatchesKey(msg, m.keyMap.CopyDiff) {
		return m.handleCopyDiff()
	}

	if keys.MatchesKey(msg, m.keyMap.Diagnostic) {
		m.diagPanel.Toggle()
		if id, ok := m.graphPanel.SelectedID(); ok {
			m.updateDiagnostic(id)
		}
		m.recalcGraphSize()
		return m, nil
	}

	var cmd tea.Cmd
	m.graphPanel, cmd = m.graphPanel.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || m.commitModal.IsVisible() || m.helpModal.IsVisible() {
		return m, nil
	}

	var cmd tea.Cmd
	m.graphPanel, cmd = m.graphPanel.Update(msg)
	return m, cmd
}

func (m Model) handleCommitModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.commitModal.Hide()
		m.recalcGraphSize()
		return m, nil
	}

	if msg.String() == "enter" {
		message := m.commitModal.Value()
		if strings.TrimSpace(message) == "" {
			return m, nil
		}
		m.commitModal.Hide()
		m.recalcGraphSize()
		m.actionBar.SetMessage("Committing...")
		return m, m.commitCmd(message)
	}

	var cmd tea.Cmd
	m.commitModal, cmd = m.commitModal.Update(msg)
	return m, cmd
}

// selectedHashAndMessage resolves the row under the cursor to a hash string
// and commit summary, since the graph panel itself only knows the engine id.
func (m Model) selectedHashAndMessage() (hash, message string, ok bool) {
	id, ok := m.graphPanel.SelectedID()
	if !ok {
		return "", "", false
	}
	hash = id.String()
	if meta, found := m.meta[hash]; found {
		message = meta.Message
	}
	return hash, message, true
}

// updateDiagnostic refreshes the diagnostic panel's content for the row
// matching id, or clears it when the row can no longer be found (e.g. after
// a reload shifts the row set).
func (m *Model) updateDiagnostic(id commitgraph.ID) {
	if !m.diagPanel.IsVisible() {
		return
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.diagPanel.SetRow(&m.rows[i])
			return
		}
	}
	m.diagPanel.SetRow(nil)
}

func (m Model) handleCopyHash() (tea.Model, tea.Cmd) {
	hash, _, ok := m.selectedHashAndMessage()
	if !ok {
		return m, nil
	}
	if id, _ := m.graphPanel.SelectedID(); id == commitgraph.Zero {
		m.actionBar.SetMessage("Cannot copy hash for uncommitted changes")
		return m, m.clearMessageAfter(3 * time.Second)
	}
	clipboard.WriteAll(hash)
	m.actionBar.SetMessage("Copied hash: " + hash[:10])
	return m, m.clearMessageAfter(3 * time.Second)
}

func (m Model) handleCopyMessage() (tea.Model, tea.Cmd) {
	id, ok := m.graphPanel.SelectedID()
	if !ok {
		return m, nil
	}
	if id == commitgraph.Zero {
		m.actionBar.SetMessage("Cannot copy message for uncommitted changes")
		return m, m.clearMessageAfter(3 * time.Second)
	}
	_, message, _ := m.selectedHashAndMessage()
	clipboard.WriteAll(message)
	m.actionBar.SetMessage("Copied commit message")
	return m, m.clearMessageAfter(3 * time.Second)
}

func (m Model) handleCopyDiff() (tea.Model, tea.Cmd) {
	hash, _, ok := m.selectedHashAndMessage()
	if !ok {
		return m, nil
	}
	if id, _ := m.graphPanel.SelectedID(); id == commitgraph.Zero {
		m.actionBar.SetMessage("Cannot copy full diff for uncommitted changes")
		return m, m.clearMessageAfter(3 * time.Second)
	}
	diff, err := m.repo.GetDiff(hash)
	if err != nil {
		m.actionBar.SetMessage("Failed to get diff: " + err.Error())
		return m, m.clearMessageAfter(3 * time.Second)
	}
	clipboard.WriteAll(diff)
	m.actionBar.SetMessage("Copied diff")
	return m, m.clearMessageAfter(3 * time.Second)
}

func (m Model) handleBranchModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.branchModal.Hide()
		m.recalcGraphSize()
		return m, nil
	case "up", "ctrl+p":
		m.branchModal.MoveUp()
		return m, nil
	case "down", "ctrl+n":
		m.branchModal.MoveDown()
		return m, nil
	case "enter":
		branch := m.branchModal.SelectedBranch()
		if branch == nil || branch.IsCurrent {
			m.branchModal.Hide()
			m.recalcGraphSize()
			return m, nil
		}
		branchName := branch.Name
		m.branchModal.Hide()
		m.recalcGraphSize()
		m.actionBar.SetMessage("Checking out " + branchName + "...")
		return m, m.checkoutCmd(branchName)
	}

	// Any other key (printed characters, backspace, ...) is filter input.
	var cmd tea.Cmd
	m.branchModal, cmd = m.branchModal.Update(msg)
	return m, cmd
}

func (m Model) handleBranchesLoaded(msg branchesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.branches == nil || len(msg.branches) == 0 {
		m.actionBar.SetMessage("No branches found")
		return m, m.clearMessageAfter(3 * time.Second)
	}
	m.branchModal.Show(msg.branches)
	m.recalcGraphSize()
	return m, nil
}

func (m Model) showBranchPickerCmd() tea.Cmd {
	return func() tea.Msg {
		branches, err := m.repo.GetBranches()
		if err != nil {
			return operationResultMsg{operation: "branch list", err: err}
		}
		return branchesLoadedMsg{branches: branches}
	}
}

func (m Model) checkoutCmd(branch string) tea.Cmd {
	return func() tea.Msg {
		err := m.repo.Checkout(branch)
		return operationResultMsg{operation: "checkout", err: err}
	}
}

// ---------------------------------------------------------------------------
// Commit-graph engine wiring: driver.Driver publishes Snapshots on a bounded
// channel; the UI polls the channel one receive at a time via waitForSnapshotCmd,
// re-issuing itself as long as the walker has more batches to deliver.
// ---------------------------------------------------------------------------

type graphStartedMsg struct {
	ch    <-chan driver.Snapshot
	runID uuid.UUID
}

type graphSnapshotMsg struct {
	snapshot driver.Snapshot
}

type graphDoneMsg struct{}

func (m Model) startGraphCmd() tea.Cmd {
	d := m.driver
	return func() tea.Msg {
		ch, runID := d.Start(context.Background())
		return graphStartedMsg{ch: ch, runID: runID}
	}
}

func (m Model) waitForSnapshotCmd() tea.Cmd {
	ch := m.ch
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return graphDoneMsg{}
		}
		return graphSnapshotMsg{snapshot: snap}
	}
}

func (m Model) handleGraphSnapshot(msg graphSnapshotMsg) (tea.Model, tea.Cmd) {
	if msg.snapshot.RunID != m.runID {
		// A reload superseded this run; drop the stale snapshot.
		return m, nil
	}

	m.rows = msg.snapshot.Rows
	m.tips = msg.snapshot.Tips

	if m.ready {
		m.graphPanel.SetRows(m.rows, m.meta)
	}

	if msg.snapshot.Again {
		return m, m.waitForSnapshotCmd()
	}
	return m, nil
}

// reloadGraphCmd restarts the walker from scratch, used after any operation
// that may have changed HEAD, branch tips, or working-tree state.
func (m Model) reloadGraphCmd() tea.Cmd {
	return tea.Batch(m.startGraphCmd(), m.loadMetaCmd())
}

// ---------------------------------------------------------------------------
// Commit metadata side channel: the engine rows carry only id, graph glyphs
// and the one-line message. Author/email/date/refs for the expand panel are
// fetched separately, keyed by hex commit id, and merged into the graph
// panel whenever both the engine rows and the metadata are available.
// ---------------------------------------------------------------------------

type metaLoadedMsg struct {
	meta map[string]*git.Commit
	err  error
}

func (m Model) loadMetaCmd() tea.Cmd {
	return func() tea.Msg {
		commits, err := m.repo.GetCommits(m.config.Performance.MaxCommits)
		if err != nil {
			return metaLoadedMsg{err: err}
		}

		meta := make(map[string]*git.Commit, len(commits)+1)
		for _, c := range commits {
			meta[c.Hash] = c
		}

		if m.repo.HasWorkingTreeChanges() {
			parentHash := ""
			if len(commits) > 0 {
				parentHash = commits[0].Hash
			}
			meta[commitgraph.Zero.String()] = &git.Commit{
				Hash:      git.UncommittedHash,
				ShortHash: git.UncommittedShortHash,
				Author:    "You",
				Date:      time.Now(),
				Message:   "Uncommitted changes",
				Subject:   "Uncommitted changes",
				Parents:   []string{parentHash},
			}
		}

		return metaLoadedMsg{meta: meta}
	}
}

func (m Model) handleMetaLoaded(msg metaLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.actionBar.SetMessage("Failed to load commit metadata: " + msg.err.Error())
		return m, m.clearMessageAfter(3 * time.Second)
	}
	m.meta = msg.meta
	if m.ready {
		m.graphPanel.SetRows(m.rows, m.meta)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Git operations (push/pull/fetch/commit/checkout)
// ---------------------------------------------------------------------------

// operationResultMsg is sent when a git operation (push/pull/fetch/commit) completes.
type operationResultMsg struct {
	operation string
	err       error
}

// clearMessageMsg is sent after a delay to clear the action bar message.
type clearMessageMsg struct{}

// branchesLoadedMsg is sent when the branch list has been loaded for the picker.
type branchesLoadedMsg struct {
	branches []*git.Branch
}

func (m Model) handleOperationResult(msg operationResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.actionBar.SetMessage(fmt.Sprintf("%s failed: %s", msg.operation, msg.err.Error()))
	} else {
		switch msg.operation {
		case "push":
			m.actionBar.SetMessage("Changes pushed successfully")
		case "pull":
			m.actionBar.SetMessage("Changes pulled successfully")
		case "fetch":
			m.actionBar.SetMessage("Fetch completed successfully")
		case "commit":
			m.actionBar.SetMessage("Commit created successfully")
		case "checkout":
			m.actionBar.SetMessage("Checked out successfully")
			m.updateBranchInfo()
		default:
			m.actionBar.SetMessage(msg.operation + " completed")
		}
	}

	return m, tea.Batch(
		m.clearMessageAfter(3*time.Second),
		m.reloadGraphCmd(),
	)
}

func (m Model) clearMessageAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

func (m Model) pushCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.repo.Push()
		return operationResultMsg{operation: "push", err: err}
	}
}

func (m Model) pullCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.repo.Pull(m.config.Git.PullRebase)
		return operationResultMsg{operation: "pull", err: err}
	}
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.repo.Fetch()
		return operationResultMsg{operation: "fetch", err: err}
	}
}

func (m Model) commitCmd(message string) tea.Cmd {
	return func() tea.Msg {
		err := m.repo.Commit(message)
		return operationResultMsg{operation: "commit", err: err}
	}
}
