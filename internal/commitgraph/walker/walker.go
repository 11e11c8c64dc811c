// Package walker drives the topological+time-ordered commit iteration,
// maintains the lane buffer and layer compositor as each commit is
// consumed, and renders each commit's row. It supports resumable batches
// so a background driver can publish partial results.
//
// Ported closely from the original engine's walk() (core/walker.rs): the
// uncommitted head row construction, the per-commit scan over the lane
// buffer, and the merge-connector algorithm all mirror that function
// section for section.
package walker

import (
	"context"
	"iter"

	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/lane"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/layer"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/palette"
	"github.com/samber/lo"
)

// Row is one commit's complete rendered output, immutable once appended.
type Row struct {
	ID         commitgraph.ID
	Graph      []layer.Span
	Branches   []layer.Span
	Message    string
	Diagnostic string
}

// Walker holds all state for one run: the repository facade, palette,
// lane buffer, layer compositor, tip map, and the rows emitted so far.
type Walker struct {
	src commitgraph.Source

	picker   *palette.Picker
	buffer   *lane.Buffer
	compo    *layer.Compositor
	tips     commitgraph.TipMap
	headID   commitgraph.ID
	tipColor map[commitgraph.ID]palette.Color

	next     func() (commitgraph.ID, bool)
	stop     func()
	started  bool
	finished bool

	// Diagnostic, when true, populates Row.Diagnostic with a trace of the
	// lane buffer. Optional per spec.md §9 Open Question (b).
	Diagnostic bool

	Rows []Row
	IDs  []commitgraph.ID
}

// New creates a fresh Walker against src. State (palette, buffer, pending
// mergers, row vectors) is created here and mutated in place across
// subsequent Walk calls; a new run needs a new Walker.
func New(src commitgraph.Source) *Walker {
	return &Walker{
		src:      src,
		picker:   palette.NewPicker(),
		buffer:   lane.NewBuffer(),
		tipColor: make(map[commitgraph.ID]palette.Color),
	}
}

func (w *Walker) init(ctx context.Context) error {
	w.compo = layer.NewCompositor(w.picker)

	tips, err := w.src.Tips()
	if err != nil {
		return commitgraph.WrapRepoError("tips", err)
	}
	w.tips = tips

	summary, err := w.src.UncommittedSummary()
	if err != nil {
		return commitgraph.WrapRepoError("uncommitted_summary", err)
	}
	w.headID = summary.HeadID

	w.renderUncommittedRow(summary)

	walkSeq, err := w.src.TopoTimeWalk(ctx)
	if err != nil {
		return commitgraph.WrapRepoError("topo_time_walk", err)
	}
	next, stop := iter.Pull(walkSeq)
	w.next = next
	w.stop = stop
	w.started = true
	return nil
}

// renderUncommittedRow pushes the synthetic first row representing
// working-directory changes.
func (w *Walker) renderUncommittedRow(summary commitgraph.Summary) {
	slot := lane.Uncommitted([]commitgraph.ID{summary.HeadID})
	w.buffer.Advance(slot)
	w.buffer.SnapshotPrevious()

	row := Row{
		ID:       commitgraph.Zero,
		Graph:    RenderGraph(commitgraph.Zero, []layer.Span{{Glyph: commitgraph.SymUncommitted, Color: palette.RampA[0]}}),
		Branches: RenderUncommittedBadge(summary),
		Message:  "",
	}
	if w.Diagnostic {
		row.Diagnostic = RenderDiagnostic(w.buffer.Curr)
	}
	w.Rows = append(w.Rows, row)
	w.IDs = append(w.IDs, commitgraph.Zero)
}

// Walk consumes up to budget commits, appending to Rows/IDs. It returns
// false once the walk is exhausted and true whenever the budget is used up
// first; when the last commit falls exactly on the budget, that call still
// returns true and the next call returns false without adding rows. State
// persists across calls so rows already published are final. Walk must be called at least once to perform the
// uncommitted-row setup even when budget is 0.
func (w *Walker) Walk(ctx context.Context, budget int) (again bool, err error) {
	if w.finished {
		return false, nil
	}
	if !w.started {
		if err := w.init(ctx); err != nil {
			return false, err
		}
	}

	consumed := 0
	for consumed < budget {
		id, ok := w.next()
		if !ok {
			w.finished = true
			w.stop()
			return false, nil
		}

		if err := w.step(id); err != nil {
			return false, err
		}
		consumed++
	}
	return true, nil
}

// step performs one iteration of the per-commit loop: clear the
// compositor, build the commit's slot, advance the lane buffer, scan it to
// place glyphs, bake, render, and snapshot.
func (w *Walker) step(id commitgraph.ID) error {
	w.compo.Clear()

	parents, err := w.src.Parents(id)
	if err != nil {
		return commitgraph.WrapRepoError("parents", err)
	}
	slot := lane.Commit(id, parents)
	w.buffer.Advance(slot)

	w.scanAndPlace(id, parents)

	spansGraph := w.compo.Bake()

	w.buffer.SnapshotPrevious()

	message, err := w.src.Message(id)
	if err != nil {
		return commitgraph.WrapRepoError("message", err)
	}

	row := Row{
		ID:       id,
		Graph:    RenderGraph(id, spansGraph),
		Branches: RenderBranches(id, message, w.tips[id], w.tipColor[id]),
		Message:  RenderMessage(message)[0].Glyph,
	}
	if w.Diagnostic {
		row.Diagnostic = RenderDiagnostic(w.buffer.Curr)
	}
	w.Rows = append(w.Rows, row)
	w.IDs = append(w.IDs, id)
	return nil
}

// Tips returns the tip map resolved for this run.
func (w *Walker) Tips() commitgraph.TipMap { return w.tips }

// isTip reports whether id carries at least one reference.
func (w *Walker) isTip(id commitgraph.ID) bool {
	_, ok := w.tips[id]
	return ok
}

// scanAndPlace walks the lane buffer left to right, placing the commit and
// tip/fork/join glyphs, and runs the merge-connector algorithm for the
// current commit's slot if it is a merge.
func (w *Walker) scanAndPlace(id commitgraph.ID, parents []commitgraph.ID) {
	isCommitFound := false

	for laneIdx, slot := range w.buffer.Curr {
		switch {
		case slot.IsDummy():
			w.emitDummy(laneIdx)

		case slot.ID == id:
			isCommitFound = true
			w.emitCommitGlyph(id, laneIdx, parents)
			if len(parents) > 1 {
				w.connectMerge(id, laneIdx, parents)
			}

		default:
			w.emitOtherLive(slot, laneIdx)
		}
	}

	if !isCommitFound {
		w.emitAppendedCommitGlyph(id, len(w.buffer.Curr)-1, parents)
	}
}

// emitDummy handles a Dummy slot at laneIdx: a lane that was live last row
// closes visually (BRANCH_UP) if the previous row's slot there had exactly
// one parent (a true terminus), otherwise it is already fully closed.
func (w *Walker) emitDummy(laneIdx int) {
	prev, ok := prevAt(w.buffer.Prev, laneIdx)
	if !ok {
		return
	}
	if len(prev.Parents) == 1 {
		w.compo.Commit(commitgraph.SymEmpty, laneIdx)
		w.compo.Commit(commitgraph.SymEmpty, laneIdx)
		w.compo.Pipe(commitgraph.SymBranchUp, laneIdx)
		w.compo.Pipe(commitgraph.SymEmpty, laneIdx)
	} else {
		w.compo.Commit(commitgraph.SymEmpty, laneIdx)
		w.compo.Commit(commitgraph.SymEmpty, laneIdx)
		w.compo.Pipe(commitgraph.SymEmpty, laneIdx)
		w.compo.Pipe(commitgraph.SymEmpty, laneIdx)
	}
}

// emitCommitGlyph chooses and emits the glyph for the commit's own slot:
// a merge bullet, a toggled tip marker, or a plain hollow commit.
func (w *Walker) emitCommitGlyph(id commitgraph.ID, laneIdx int, parents []commitgraph.ID) {
	switch {
	case len(parents) > 1 && !w.isTip(id):
		w.compo.Commit(commitgraph.SymMerge, laneIdx)
	case w.isTip(id):
		w.picker.Toggle(laneIdx)
		w.tipColor[id] = w.picker.Color(laneIdx)
		w.compo.Commit(commitgraph.SymCommitBranch, laneIdx)
	default:
		w.compo.Commit(commitgraph.SymCommit, laneIdx)
	}
	w.compo.Commit(commitgraph.SymEmpty, laneIdx)
	w.compo.Pipe(commitgraph.SymEmpty, laneIdx)
	w.compo.Pipe(commitgraph.SymEmpty, laneIdx)
}

// emitAppendedCommitGlyph handles the case where the commit was not found
// anywhere in the buffer scan: it was appended as a fresh tip or as a
// first-seen merge contribution.
func (w *Walker) emitAppendedCommitGlyph(id commitgraph.ID, laneIdx int, parents []commitgraph.ID) {
	if w.isTip(id) {
		w.picker.Toggle(laneIdx)
		w.tipColor[id] = w.picker.Color(laneIdx)
		w.compo.Commit(commitgraph.SymCommitBranch, laneIdx)
	} else {
		w.compo.Commit(commitgraph.SymCommit, laneIdx)
	}
	w.compo.Commit(commitgraph.SymEmpty, laneIdx)
	w.compo.Pipe(commitgraph.SymEmpty, laneIdx)
	w.compo.Pipe(commitgraph.SymEmpty, laneIdx)
}

// emitOtherLive handles a live slot that is neither Dummy nor the current
// commit: a plain ongoing lane, dotted if it carries HEAD in lane 0.
func (w *Walker) emitOtherLive(slot lane.Slot, laneIdx int) {
	w.compo.Commit(commitgraph.SymEmpty, laneIdx)
	w.compo.Commit(commitgraph.SymEmpty, laneIdx)
	if laneIdx == 0 && slot.HasParent(w.headID) {
		w.compo.PipeCustom(commitgraph.SymVerticalDotted, laneIdx, headLaneColor)
	} else {
		w.compo.Pipe(commitgraph.SymVertical, laneIdx)
	}
	w.compo.Pipe(commitgraph.SymEmpty, laneIdx)
}

// headLaneColor is the original engine's COLOR_GREY_500, used for the
// dotted pipe marking the lane currently carrying HEAD.
var headLaneColor = palette.Color("#9E9E9E")

// connectMerge runs the merge-connector algorithm for every non-mainline
// parent of id (parents[1:]), writing only to the Merges layer. mergeeIdx
// is the commit's own lane.
//
// Extra parents are checked rightmost to leftmost. One with an already-open
// lane is in-trace: drawInTraceMerge's own scan closes all such lanes in a
// single call, so it only needs to run once regardless of how many extra
// parents matched. One with no open lane is deferred: drawDeferredMerge
// opens a fresh branch-down lane for it and it becomes a pending merger.
//
// Octopus merges (3+ parents, spec.md §8) register their deferred extras
// rightmost first, matching materializePendingMerger's habit of always
// splitting off the slot's current rightmost parent — the two stay in
// lockstep without either side needing to track which parent is which.
func (w *Walker) connectMerge(id commitgraph.ID, mergeeIdx int, parents []commitgraph.ID) {
	extras := parents[1:]
	inTraceIdx := -1
	var deferred []commitgraph.ID

	for i := len(extras) - 1; i >= 0; i-- {
		incoming := extras[i]
		_, idx, found := lo.FindIndexOf(w.buffer.Curr, func(s lane.Slot) bool {
			return len(s.Parents) == 1 && s.Parents[0] == incoming
		})
		if found {
			if inTraceIdx == -1 {
				inTraceIdx = idx
			}
			continue
		}
		deferred = append(deferred, incoming)
	}

	if inTraceIdx != -1 {
		w.drawInTraceMerge(mergeeIdx, inTraceIdx, parents)
	}
	for offset := range deferred {
		w.drawDeferredMerge(mergeeIdx, offset)
		w.buffer.RegisterMerger(id)
	}
}

// drawInTraceMerge handles the case where the incoming parent already has
// an open lane (merger_idx found), drawing the corner/horizontal bridge
// between merger and mergee regardless of which side it is on.
func (w *Walker) drawInTraceMerge(mergeeIdx, mergerIdx int, parents []commitgraph.ID) {
	isMergeeFound := false
	isDrawing := false
	isMergedBefore := false

	for i, s := range w.buffer.Curr {
		if !isMergeeFound {
			if i == mergeeIdx {
				isMergeeFound = true
				isDrawing = !isDrawing
				if !isDrawing {
					isMergedBefore = true
				}
				w.compo.Merge(commitgraph.SymEmpty, mergerIdx)
				w.compo.Merge(commitgraph.SymEmpty, mergerIdx)
				continue
			}

			switch {
			case len(s.Parents) == 1 && lo.Contains(parents, s.Parents[0]):
				w.compo.Merge(commitgraph.SymMergeRightFrom, mergerIdx)
				if i+1 == mergeeIdx {
					w.compo.Merge(commitgraph.SymEmpty, mergerIdx)
				} else {
					w.compo.Merge(commitgraph.SymHorizontal, mergerIdx)
				}
				isDrawing = true
			case isDrawing:
				if i+1 == mergeeIdx {
					w.compo.Merge(commitgraph.SymHorizontal, mergerIdx)
					w.compo.Merge(commitgraph.SymEmpty, mergerIdx)
				} else {
					w.compo.Merge(commitgraph.SymHorizontal, mergerIdx)
					w.compo.Merge(commitgraph.SymHorizontal, mergerIdx)
				}
			default:
				w.compo.Merge(commitgraph.SymEmpty, mergerIdx)
				w.compo.Merge(commitgraph.SymEmpty, mergerIdx)
			}
			continue
		}

		// After the mergee.
		if !isMergedBefore {
			switch {
			case len(s.Parents) == 1 && lo.Contains(parents, s.Parents[0]):
				w.compo.Merge(commitgraph.SymMergeLeftFrom, mergerIdx)
				w.compo.Merge(commitgraph.SymEmpty, mergerIdx)
				isDrawing = false
			case isDrawing:
				w.compo.Merge(commitgraph.SymHorizontal, mergerIdx)
				w.compo.Merge(commitgraph.SymHorizontal, mergerIdx)
			default:
				w.compo.Merge(commitgraph.SymEmpty, mergerIdx)
				w.compo.Merge(commitgraph.SymEmpty, mergerIdx)
			}
		}
	}
}

// drawDeferredMerge handles the case where an extra parent has no open
// lane: it appends (or, for the first deferred parent only, reuses a
// fading dummy column for) a new lane. offset counts how many deferred
// lanes connectMerge has already opened for this same commit (0 for the
// first), so a commit with several deferred extras fans them out into
// distinct lanes instead of stacking glyphs on top of each other.
func (w *Walker) drawDeferredMerge(mergeeIdx, offset int) {
	idx := len(w.buffer.Curr) - 1
	trailingDummies := 0
	if offset == 0 {
		for i := len(w.buffer.Curr) - 1; i >= 0; i-- {
			if !w.buffer.Curr[i].IsDummy() {
				idx = i
				break
			}
			trailingDummies++
		}
	}
	newLane := idx + 1 + offset

	switch {
	case offset == 0 && trailingDummies > 0 && idx+1 < len(w.buffer.Prev) && w.buffer.Prev[idx+1].IsDummy():
		w.compo.Merge(commitgraph.SymBranchDown, newLane)
		w.compo.Merge(commitgraph.SymEmpty, newLane)
	case offset == 0 && trailingDummies > 0:
		for i := mergeeIdx; i < idx; i++ {
			w.compo.Merge(commitgraph.SymHorizontal, newLane)
			w.compo.Merge(commitgraph.SymHorizontal, newLane)
		}
		w.compo.Merge(commitgraph.SymMergeLeftFrom, newLane)
		w.compo.Merge(commitgraph.SymEmpty, newLane)
	default:
		w.picker.Toggle(newLane)
		for i := mergeeIdx; i < idx+offset; i++ {
			w.compo.Merge(commitgraph.SymHorizontal, newLane)
			w.compo.Merge(commitgraph.SymHorizontal, newLane)
		}
		w.compo.Merge(commitgraph.SymBranchDown, newLane)
		w.compo.Merge(commitgraph.SymEmpty, newLane)
	}
}

// prevAt returns prev[idx] and true if idx is in range.
func prevAt(prev []lane.Slot, idx int) (lane.Slot, bool) {
	if idx < 0 || idx >= len(prev) {
		return lane.Slot{}, false
	}
	return prev[idx], true
}
