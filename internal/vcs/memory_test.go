package vcs_test

import (
	"context"
	"testing"

	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	"github.com/lazygit-lite/lazygit-lite/internal/vcs"
	"github.com/stretchr/testify/require"
)

func TestMemoryImplementsSource(t *testing.T) {
	a, b := vcs.ID('A'), vcs.ID('B')
	m := vcs.NewMemory([]vcs.CommitSpec{
		{ID: b, Parents: []commitgraph.ID{a}, Message: "second", TipNames: []string{"main"}},
		{ID: a, Message: "first"},
	}, commitgraph.Summary{HeadID: b, Modified: 1})

	seq, err := m.TopoTimeWalk(context.Background())
	require.NoError(t, err)

	var walked []commitgraph.ID
	for id := range seq {
		walked = append(walked, id)
	}
	require.Equal(t, []commitgraph.ID{b, a}, walked)

	parents, err := m.Parents(b)
	require.NoError(t, err)
	require.Equal(t, []commitgraph.ID{a}, parents)

	parents, err = m.Parents(a)
	require.NoError(t, err)
	require.Empty(t, parents)

	msg, err := m.Message(a)
	require.NoError(t, err)
	require.Equal(t, "first", msg)

	tips, err := m.Tips()
	require.NoError(t, err)
	require.Equal(t, commitgraph.TipMap{b: {"main"}}, tips)

	summary, err := m.UncommittedSummary()
	require.NoError(t, err)
	require.Equal(t, b, summary.HeadID)
	require.Equal(t, 1, summary.Modified)
}

func TestIDFixtureIsStableAndDistinct(t *testing.T) {
	require.Equal(t, vcs.ID('A'), vcs.ID('A'))
	require.NotEqual(t, vcs.ID('A'), vcs.ID('B'))
	require.Equal(t, "4141414141414141414141414141414141414141", vcs.ID('A').String())
}
