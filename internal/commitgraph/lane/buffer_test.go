package lane

import (
	"testing"

	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	"github.com/stretchr/testify/require"
)

func id(b byte) commitgraph.ID {
	var out commitgraph.ID
	for i := range out {
		out[i] = b
	}
	return out
}

// P1: trim is the first step of every Advance, so a trailing Dummy left
// over from the previous row's placement is always gone by the time the
// next commit is placed (it may still be visible, for exactly one row, in
// the Curr a walker scans right after the Advance call that produced it —
// see the fork test below).
func TestAdvanceTrimsLeftoverTrailingDummy(t *testing.T) {
	b := NewBuffer()
	a, bb, c := id('A'), id('B'), id('C')

	b.Advance(Commit(c, []commitgraph.ID{a}))
	b.SnapshotPrevious()
	b.Advance(Commit(bb, []commitgraph.ID{a}))
	b.SnapshotPrevious()

	// Advancing A closes both lanes (see fork test), leaving Curr ending
	// in a fresh Dummy this same call produced.
	b.Advance(Commit(a, nil))
	require.True(t, b.Curr[len(b.Curr)-1].IsDummy())
	b.SnapshotPrevious()

	// The next Advance's trim step removes it before doing anything else.
	d := id('D')
	b.Advance(Commit(d, []commitgraph.ID{a}))
	for _, s := range b.Curr {
		require.False(t, s.IsDummy())
	}
}

// Scenario 1 (Linear): C -> B -> A. Advancing C then B then A keeps a
// single lane alive throughout, replacing in place rather than growing.
func TestAdvanceLinearSingleLane(t *testing.T) {
	b := NewBuffer()
	a, bb, c := id('A'), id('B'), id('C')

	b.Advance(Commit(c, []commitgraph.ID{bb}))
	require.Len(t, b.Curr, 1)
	require.Equal(t, c, b.Curr[0].ID)
	b.SnapshotPrevious()

	b.Advance(Commit(bb, []commitgraph.ID{a}))
	require.Len(t, b.Curr, 1)
	require.Equal(t, bb, b.Curr[0].ID)
	b.SnapshotPrevious()

	b.Advance(Commit(a, nil))
	require.Len(t, b.Curr, 1)
	require.Equal(t, a, b.Curr[0].ID)
}

// Scenario 2 (Fork): A has two children B, C, walked C, B, A. After C and
// B are both placed, advancing A (which is a parent of both) replaces the
// leftmost matching lane (C's) with A and collapses B's lane — its only
// parent was A — into a trailing Dummy, which the walker still scans this
// row (to emit the closing BRANCH_UP corner) before the next Advance call's
// trim step removes it.
func TestAdvanceForkClosesBothLanes(t *testing.T) {
	b := NewBuffer()
	a, bb, c := id('A'), id('B'), id('C')

	b.Advance(Commit(c, []commitgraph.ID{a}))
	b.SnapshotPrevious()
	b.Advance(Commit(bb, []commitgraph.ID{a}))
	require.Len(t, b.Curr, 2)
	b.SnapshotPrevious()

	b.Advance(Commit(a, nil))
	require.Len(t, b.Curr, 2)
	require.Equal(t, a, b.Curr[0].ID)
	require.True(t, b.Curr[1].IsDummy())
}

// P6 (pending-mergers balance): registering a merger and later advancing
// the slot that carries that id materializes and removes it from the
// queue.
func TestPendingMergerMaterializesAndClears(t *testing.T) {
	b := NewBuffer()
	d, c, bb := id('D'), id('C'), id('B')

	// D merges C (mainline) and B (deferred, registered as pending).
	b.Advance(Commit(d, []commitgraph.ID{c, bb}))
	b.RegisterMerger(d)
	b.SnapshotPrevious()
	require.Len(t, b.mergers, 1)

	// C is walked next; D's slot (parents [C, B]) matches at the leftmost
	// position, materializing the split: D's clone keeps B alone on a new
	// lane, and the original D slot (now just C) is overwritten by C.
	b.Advance(Commit(c, nil))
	require.Empty(t, b.mergers)

	found := false
	for _, s := range b.Curr {
		if s.ID == d {
			found = true
			require.Equal(t, []commitgraph.ID{bb}, s.Parents)
		}
	}
	require.True(t, found, "materialized D slot should remain, now awaiting only B")
}
