package walker

import (
	"context"
	"fmt"
	"testing"

	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/lane"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/layer"
	"github.com/lazygit-lite/lazygit-lite/internal/vcs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func idOf(b byte) commitgraph.ID { return vcs.ID(b) }

func glyphs(spans []layer.Span) string {
	out := ""
	for _, s := range spans {
		out += s.Glyph
	}
	return out
}

// Scenario 1 (Linear): C -> B -> A, tip = C.
func TestWalkLinear(t *testing.T) {
	a, b, c := idOf('A'), idOf('B'), idOf('C')
	src := vcs.NewMemory([]vcs.CommitSpec{
		{ID: c, Parents: []commitgraph.ID{b}, Message: "c", TipNames: []string{"main"}},
		{ID: b, Parents: []commitgraph.ID{a}, Message: "b"},
		{ID: a, Message: "a"},
	}, commitgraph.Summary{HeadID: c})

	w := New(src)
	again, err := w.Walk(context.Background(), 100)
	require.NoError(t, err)
	require.False(t, again)

	require.Equal(t, []commitgraph.ID{commitgraph.Zero, c, b, a}, w.IDs)
	require.Equal(t, commitgraph.SymCommitBranch, w.Rows[1].Graph[2].Glyph)
	require.Equal(t, commitgraph.SymCommit, w.Rows[2].Graph[2].Glyph)
	require.Equal(t, commitgraph.SymCommit, w.Rows[3].Graph[2].Glyph)
	require.Contains(t, w.tipColor, c)
}

// Scenario 2 (Fork): A has two children B, C, both tips. Walk order C, B, A.
func TestWalkFork(t *testing.T) {
	a, b, c := idOf('A'), idOf('B'), idOf('C')
	src := vcs.NewMemory([]vcs.CommitSpec{
		{ID: c, Parents: []commitgraph.ID{a}, Message: "c", TipNames: []string{"c-branch"}},
		{ID: b, Parents: []commitgraph.ID{a}, Message: "b", TipNames: []string{"b-branch"}},
		{ID: a, Message: "a"},
	}, commitgraph.Summary{HeadID: c})

	w := New(src)
	_, err := w.Walk(context.Background(), 100)
	require.NoError(t, err)

	require.Equal(t, commitgraph.SymCommitBranch, w.Rows[1].Graph[2].Glyph) // C, lane 0
	require.Equal(t, commitgraph.SymCommitBranch, w.Rows[2].Graph[4].Glyph) // B, new lane 1
	require.GreaterOrEqual(t, len(w.Rows[2].Graph), 5)                      // id prefix + lane0 + lane1 cells
}

// Scenario 3 (merge with in-trace incoming): the merge's non-mainline
// parent already has an open lane, so connectMerge draws the connector
// corner in the same row instead of deferring.
func TestWalkMergeInTrace(t *testing.T) {
	// Merger lane opens to the right of the mergee: E -> D closes into G's
	// already-open lane for B, terminating with SymMergeLeftFrom ("⎨").
	t.Run("merger right of mergee", func(t *testing.T) {
		e, g, d, c, b, a := idOf('E'), idOf('G'), idOf('D'), idOf('C'), idOf('B'), idOf('A')
		src := vcs.NewMemory([]vcs.CommitSpec{
			{ID: e, Parents: []commitgraph.ID{d}, Message: "e"},
			{ID: g, Parents: []commitgraph.ID{b}, Message: "g"},
			{ID: d, Parents: []commitgraph.ID{c, b}, Message: "d"},
			{ID: c, Parents: []commitgraph.ID{a}, Message: "c"},
			{ID: b, Parents: []commitgraph.ID{a}, Message: "b"},
			{ID: a, Message: "a"},
		}, commitgraph.Summary{HeadID: e})

		w := New(src)
		_, err := w.Walk(context.Background(), 100)
		require.NoError(t, err)

		// Rows: uncommitted, E, G, D, C, B, A.
		dRow := w.Rows[3]
		require.Equal(t, commitgraph.SymMerge, dRow.Graph[2].Glyph)
		require.Equal(t, commitgraph.SymMergeLeftFrom, dRow.Graph[4].Glyph)
	})

	// Merger lane opens to the left of the mergee, with an unrelated lane
	// in between: D's connector runs SymMergeRightFrom ("╭") then bridges
	// the gap with SymHorizontal ("─") before reaching the mergee's "•".
	t.Run("merger left of mergee", func(t *testing.T) {
		f, h, e, d, c, b, z, a := idOf('F'), idOf('H'), idOf('E'), idOf('D'), idOf('C'), idOf('B'), idOf('Z'), idOf('A')
		src := vcs.NewMemory([]vcs.CommitSpec{
			{ID: f, Parents: []commitgraph.ID{b}, Message: "f"},
			{ID: h, Parents: []commitgraph.ID{z}, Message: "h"},
			{ID: e, Parents: []commitgraph.ID{d}, Message: "e"},
			{ID: d, Parents: []commitgraph.ID{c, b}, Message: "d"},
			{ID: c, Parents: []commitgraph.ID{a}, Message: "c"},
			{ID: b, Parents: []commitgraph.ID{a}, Message: "b"},
			{ID: z, Message: "z"},
			{ID: a, Message: "a"},
		}, commitgraph.Summary{HeadID: f})

		w := New(src)
		_, err := w.Walk(context.Background(), 100)
		require.NoError(t, err)

		// Rows: uncommitted, F, H, E, D, C, B, Z, A.
		dRow := w.Rows[4]
		require.Equal(t, commitgraph.SymMergeRightFrom, dRow.Graph[2].Glyph)
		require.Equal(t, commitgraph.SymHorizontal, dRow.Graph[3].Glyph)
		require.Equal(t, commitgraph.SymHorizontal, dRow.Graph[4].Glyph)
		require.Equal(t, commitgraph.SymMerge, dRow.Graph[6].Glyph)
	})
}

// Scenario 4 (merge with deferred incoming): the merge's non-mainline
// parent has no open lane yet, so connectMerge opens a fresh branch-down
// lane and registers the commit as a pending merger; a later Advance
// materializes the split once the buffer next moves.
func TestWalkMergeDeferred(t *testing.T) {
	e, h, d, c, b, z, a := idOf('E'), idOf('H'), idOf('D'), idOf('C'), idOf('B'), idOf('Z'), idOf('A')
	src := vcs.NewMemory([]vcs.CommitSpec{
		{ID: e, Parents: []commitgraph.ID{d}, Message: "e"},
		{ID: h, Parents: []commitgraph.ID{z}, Message: "h"},
		{ID: d, Parents: []commitgraph.ID{c, b}, Message: "d"},
		{ID: c, Parents: []commitgraph.ID{a}, Message: "c"},
		{ID: b, Parents: []commitgraph.ID{a}, Message: "b"},
		{ID: z, Message: "z"},
		{ID: a, Message: "a"},
	}, commitgraph.Summary{HeadID: e})

	w := New(src)

	again, err := w.Walk(context.Background(), 2) // E, H (the uncommitted row doesn't count against budget)
	require.NoError(t, err)
	require.True(t, again)
	require.Len(t, w.buffer.Curr, 2)

	again, err = w.Walk(context.Background(), 1) // D
	require.NoError(t, err)
	require.True(t, again)

	dRow := w.Rows[3]
	require.Equal(t, commitgraph.SymMerge, dRow.Graph[2].Glyph)
	require.Equal(t, commitgraph.SymHorizontal, dRow.Graph[3].Glyph)
	require.Equal(t, commitgraph.SymBranchDown, dRow.Graph[4].Glyph)
	require.Len(t, w.buffer.Curr, 2) // no new lane materializes on D's own row

	again, err = w.Walk(context.Background(), 1) // C: materializes D's split
	require.NoError(t, err)
	require.True(t, again)
	require.Len(t, w.buffer.Curr, 3)
	split, ok := lo.Find(w.buffer.Curr, func(s lane.Slot) bool { return s.ID == d })
	require.True(t, ok)
	require.Equal(t, []commitgraph.ID{b}, split.Parents)

	again, err = w.Walk(context.Background(), 2) // B, Z
	require.NoError(t, err)
	require.True(t, again)
	for _, s := range w.buffer.Curr {
		require.NotEqual(t, d, s.ID, "D must be fully resolved once its deferred parent is walked")
	}

	_, err = w.Walk(context.Background(), 1) // A
	require.NoError(t, err)
}

// Octopus merge (3+ parents): the rightmost parent (deferred) registers as
// a pending merger while a middle parent (already open) merges in-trace in
// the same row, per spec.md §8.
func TestWalkMergeOctopus(t *testing.T) {
	e, g, d, c, b, f := idOf('E'), idOf('G'), idOf('D'), idOf('C'), idOf('B'), idOf('F')
	src := vcs.NewMemory([]vcs.CommitSpec{
		{ID: e, Parents: []commitgraph.ID{d}, Message: "e"},
		{ID: g, Parents: []commitgraph.ID{b}, Message: "g"},
		{ID: d, Parents: []commitgraph.ID{c, b, f}, Message: "d"},
		{ID: c, Message: "c"},
		{ID: b, Message: "b"},
		{ID: f, Message: "f"},
	}, commitgraph.Summary{HeadID: e})

	w := New(src)

	_, err := w.Walk(context.Background(), 2) // E, G (the uncommitted row doesn't count against budget)
	require.NoError(t, err)

	again, err := w.Walk(context.Background(), 1) // D
	require.NoError(t, err)
	require.True(t, again)

	// Rows: uncommitted, E, G, D, C, B, F.
	dRow := w.Rows[3]
	require.Equal(t, commitgraph.SymMerge, dRow.Graph[2].Glyph)          // mergee
	require.Equal(t, commitgraph.SymMergeLeftFrom, dRow.Graph[4].Glyph)  // B, in-trace
	require.Equal(t, commitgraph.SymHorizontal, dRow.Graph[6].Glyph)     // bridge to the new lane
	require.Equal(t, commitgraph.SymHorizontal, dRow.Graph[7].Glyph)     // bridge to the new lane
	require.Equal(t, commitgraph.SymBranchDown, dRow.Graph[8].Glyph)     // F, deferred
	require.Len(t, w.buffer.Curr, 2)                                     // F's lane is still virtual

	again, err = w.Walk(context.Background(), 1) // C: materializes D's deferred parent F
	require.NoError(t, err)
	require.True(t, again)
	require.Len(t, w.buffer.Curr, 3)
	split, ok := lo.Find(w.buffer.Curr, func(s lane.Slot) bool { return s.ID == d })
	require.True(t, ok)
	require.Equal(t, []commitgraph.ID{f}, split.Parents)

	_, err = w.Walk(context.Background(), 2) // B, F
	require.NoError(t, err)
	for _, s := range w.buffer.Curr {
		require.NotEqual(t, d, s.ID, "D must be fully resolved once every extra parent is walked")
	}
}

// Scenario 5 (Uncommitted): modified=2, added=1, deleted=0; badge omits the
// zero-valued deleted segment.
func TestWalkUncommittedBadge(t *testing.T) {
	x := idOf('X')
	src := vcs.NewMemory([]vcs.CommitSpec{{ID: x, Message: "x"}},
		commitgraph.Summary{HeadID: x, Modified: 2, Added: 1, Deleted: 0})

	w := New(src)
	_, err := w.Walk(context.Background(), 100)
	require.NoError(t, err)

	require.Equal(t, commitgraph.Zero, w.IDs[0])
	badge := glyphs(w.Rows[0].Branches)
	require.Contains(t, badge, "~2 ")
	require.Contains(t, badge, "+1 ")
	require.NotContains(t, badge, "-0")
}

// Scenario 6 (Batched equivalence): a 25-commit linear chain, budget 10,
// must yield again=true,true,false and the same concatenated rows as a
// single-batch run.
func TestWalkBatchedEquivalence(t *testing.T) {
	const n = 25
	specs := make([]vcs.CommitSpec, n)
	ids := make([]commitgraph.ID, n)
	for i := 0; i < n; i++ {
		ids[i] = idOf(byte(i + 1))
	}
	for i := 0; i < n; i++ {
		var parents []commitgraph.ID
		if i+1 < n {
			parents = []commitgraph.ID{ids[i+1]}
		}
		var tipNames []string
		if i == 0 {
			tipNames = []string{"main"}
		}
		specs[i] = vcs.CommitSpec{ID: ids[i], Parents: parents, Message: fmt.Sprintf("commit %d", i), TipNames: tipNames}
	}
	summary := commitgraph.Summary{HeadID: ids[0]}

	full := New(vcs.NewMemory(specs, summary))
	again, err := full.Walk(context.Background(), n+10)
	require.NoError(t, err)
	require.False(t, again)

	batched := New(vcs.NewMemory(specs, summary))
	var agains []bool
	for {
		again, err := batched.Walk(context.Background(), 10)
		require.NoError(t, err)
		agains = append(agains, again)
		if !again {
			break
		}
	}
	require.Equal(t, []bool{true, true, false}, agains)
	require.Equal(t, full.IDs, batched.IDs)
	require.Equal(t, len(full.Rows), len(batched.Rows))
	for i := range full.Rows {
		require.Equal(t, full.Rows[i].Message, batched.Rows[i].Message)
		require.Equal(t, glyphs(full.Rows[i].Graph), glyphs(batched.Rows[i].Graph))
	}
}
