// Package lane implements the Lane Buffer: the ordered sequence of slots
// tracking which commit is expected next on each lane, plus the
// pending-mergers queue that defers a merge's second lane until its
// incoming parent is actually walked.
//
// Ported closely from the original engine's Buffer (core/buffer.rs):
// Advance mirrors Buffer::update step for step (trim trailing dummies,
// materialize any due pending merger, then place the new slot by leftmost
// parent match or append).
package lane

import (
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	"github.com/samber/lo"
)

// Kind tags what a Slot represents.
type Kind int

const (
	// KindUncommitted marks the synthetic working-directory head, produced
	// once, as the first slot of the first row only.
	KindUncommitted Kind = iota
	// KindCommit marks a lane awaiting a specific commit.
	KindCommit
	// KindDummy marks a placeholder preserving lane position while a
	// terminated lane fades; never appears trailing the buffer.
	KindDummy
)

// Slot is one cell of the Lane Buffer.
type Slot struct {
	Kind    Kind
	ID      commitgraph.ID
	Parents []commitgraph.ID
}

// Uncommitted builds the synthetic working-directory slot.
func Uncommitted(parents []commitgraph.ID) Slot {
	return Slot{Kind: KindUncommitted, ID: commitgraph.Zero, Parents: parents}
}

// Commit builds a slot awaiting id, whose downward edges terminate on
// parents.
func Commit(id commitgraph.ID, parents []commitgraph.ID) Slot {
	return Slot{Kind: KindCommit, ID: id, Parents: parents}
}

// Dummy builds a placeholder slot.
func Dummy() Slot {
	return Slot{Kind: KindDummy}
}

// IsDummy reports whether s is a placeholder.
func (s Slot) IsDummy() bool { return s.Kind == KindDummy }

// HasParent reports whether id appears in s's parent list.
func (s Slot) HasParent(id commitgraph.ID) bool {
	return lo.ContainsBy(s.Parents, func(p commitgraph.ID) bool { return p == id })
}

// hasParent is the unexported alias used within this package.
func (s Slot) hasParent(id commitgraph.ID) bool { return s.HasParent(id) }

// Buffer is the Lane Buffer: the live slot sequence (Curr), the snapshot of
// the previous row's slots (Prev, used by the walker to decide fork-close
// glyphs), and the pending-mergers queue.
type Buffer struct {
	Prev    []Slot
	Curr    []Slot
	mergers []commitgraph.ID
}

// NewBuffer returns an empty Lane Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// RegisterMerger enqueues id as a pending merger: a merge commit whose
// incoming parent had no open lane at emission time and will need its lane
// split out later, when that parent's lane finally opens.
func (b *Buffer) RegisterMerger(id commitgraph.ID) {
	b.mergers = append(b.mergers, id)
}

// SnapshotPrevious deep-copies Curr into Prev, for the next row's
// fork/close decisions.
func (b *Buffer) SnapshotPrevious() {
	b.Prev = append([]Slot(nil), b.Curr...)
}

// Advance applies the three-step state machine to slot, the commit
// currently entering the view.
func (b *Buffer) Advance(slot Slot) {
	b.trim()
	b.materializePendingMerger()
	b.place(slot)
}

// trim removes trailing Dummy slots (spec.md P1: the buffer never ends
// with Dummy).
func (b *Buffer) trim() {
	for len(b.Curr) > 0 && b.Curr[len(b.Curr)-1].IsDummy() {
		b.Curr = b.Curr[:len(b.Curr)-1]
	}
}

// materializePendingMerger finds the first interior slot whose id equals a
// queued pending merger and peels its current rightmost parent off into a
// clone slot, appended at the end of the buffer; the original keeps every
// parent but that one. Only the one matched queue entry is removed, not
// every occurrence of that id — an octopus merge with several deferred
// parents registers id once per parent (rightmost first, see connectMerge)
// and needs exactly that many separate materializations, each peeling one
// more parent off the right, to fully resolve.
func (b *Buffer) materializePendingMerger() {
	_, idx, ok := lo.FindIndexOf(b.Curr, func(s Slot) bool {
		return lo.ContainsBy(b.mergers, func(m commitgraph.ID) bool { return m == s.ID })
	})
	if !ok {
		return
	}

	merger := b.Curr[idx].ID
	if pos := lo.IndexOf(b.mergers, merger); pos >= 0 {
		b.mergers = append(b.mergers[:pos], b.mergers[pos+1:]...)
	}

	original := b.Curr[idx]
	if len(original.Parents) <= 1 {
		return
	}
	last := len(original.Parents) - 1
	clone := Slot{
		Kind:    original.Kind,
		ID:      original.ID,
		Parents: []commitgraph.ID{original.Parents[last]},
	}
	original.Parents = append([]commitgraph.ID(nil), original.Parents[:last]...)
	b.Curr[idx] = original
	b.Curr = append(b.Curr, clone)
}

// place finds the leftmost slot whose parents contain slot.ID. If found,
// that slot is replaced with slot, and every other slot that also listed
// slot.ID as a parent drops it (or, if that was its only parent, is
// replaced with a Dummy — its lane terminates here). If no slot matches,
// slot is appended as a fresh tip or first-seen merge contribution.
func (b *Buffer) place(slot Slot) {
	_, firstIdx, ok := lo.FindIndexOf(b.Curr, func(s Slot) bool { return s.hasParent(slot.ID) })
	if !ok {
		b.Curr = append(b.Curr, slot)
		return
	}

	oldID := slot.ID
	b.Curr[firstIdx] = slot

	for i := range b.Curr {
		if i == firstIdx {
			continue
		}
		s := b.Curr[i]
		if !s.hasParent(oldID) {
			continue
		}
		if len(s.Parents) > 1 {
			s.Parents = lo.Filter(s.Parents, func(p commitgraph.ID, _ int) bool { return p != oldID })
			b.Curr[i] = s
		} else {
			b.Curr[i] = Dummy()
		}
	}
}
