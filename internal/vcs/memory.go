package vcs

import (
	"context"
	"iter"

	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
)

// CommitSpec describes one fixture commit for the in-memory test double, in
// the order the fixture's author wants it walked (newest first).
type CommitSpec struct {
	ID       commitgraph.ID
	Parents  []commitgraph.ID
	Message  string
	TipNames []string
}

// Memory is an in-memory commitgraph.Source backed by a fixed parent
// table, per spec.md §9's "test double backed by in-memory parent tables".
// It never touches the filesystem, so engine tests can exercise exact
// topologies (forks, merges, octopus merges, deferred incoming parents)
// without a real repository.
type Memory struct {
	order   []commitgraph.ID
	parents map[commitgraph.ID][]commitgraph.ID
	message map[commitgraph.ID]string
	tips    commitgraph.TipMap
	summary commitgraph.Summary
}

// NewMemory builds a Memory source from commits, already given in
// topological+time order (newest first) by the caller, plus the
// uncommitted-row summary.
func NewMemory(commits []CommitSpec, summary commitgraph.Summary) *Memory {
	m := &Memory{
		parents: make(map[commitgraph.ID][]commitgraph.ID, len(commits)),
		message: make(map[commitgraph.ID]string, len(commits)),
		tips:    make(commitgraph.TipMap),
		summary: summary,
	}
	for _, c := range commits {
		m.order = append(m.order, c.ID)
		m.parents[c.ID] = c.Parents
		m.message[c.ID] = c.Message
		if len(c.TipNames) > 0 {
			m.tips[c.ID] = append(m.tips[c.ID], c.TipNames...)
		}
	}
	return m
}

var _ commitgraph.Source = (*Memory)(nil)

func (m *Memory) TopoTimeWalk(context.Context) (iter.Seq[commitgraph.ID], error) {
	order := m.order
	return func(yield func(commitgraph.ID) bool) {
		for _, id := range order {
			if !yield(id) {
				return
			}
		}
	}, nil
}

func (m *Memory) Parents(id commitgraph.ID) ([]commitgraph.ID, error) {
	return m.parents[id], nil
}

func (m *Memory) Tips() (commitgraph.TipMap, error) {
	return m.tips, nil
}

func (m *Memory) UncommittedSummary() (commitgraph.Summary, error) {
	return m.summary, nil
}

func (m *Memory) Message(id commitgraph.ID) (string, error) {
	return m.message[id], nil
}

// ID builds a commitgraph.ID fixture from a single byte repeated across the
// id, so tests can write ID('A') for commit "A" and get distinct,
// readable ids.
func ID(b byte) commitgraph.ID {
	var id commitgraph.ID
	for i := range id {
		id[i] = b
	}
	return id
}
