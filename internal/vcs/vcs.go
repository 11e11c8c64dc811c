// Package vcs implements the commit-graph engine's VCS facade
// (commitgraph.Source) against a real repository, wrapping the existing
// go-git-backed internal/git.Repository, plus an in-memory test double
// backed by fixed parent tables for the engine's tests.
//
// Grounded in the teacher repository's internal/git package (which already
// shells out to system git for topological ordering, since go-git's own
// Log does not support a multi-tip --all topological walk) and in the
// original engine's git/queries/commits.rs (get_tip_oids,
// get_branches_and_sorted_oids) for tip/topo-order semantics.
package vcs

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"iter"
	"os/exec"
	"strings"

	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	gitrepo "github.com/lazygit-lite/lazygit-lite/internal/git"
)

// Repository adapts a *gitrepo.Repository to commitgraph.Source.
type Repository struct {
	repo  *gitrepo.Repository
	path  string
	cache *parentsCache
}

// New wraps repo as a commitgraph.Source.
func New(repo *gitrepo.Repository) *Repository {
	return &Repository{repo: repo, path: repo.Path()}
}

var _ commitgraph.Source = (*Repository)(nil)

func parseID(hexStr string) (commitgraph.ID, error) {
	var id commitgraph.ID
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return id, err
	}
	if len(b) != commitgraph.IDLen {
		return id, fmt.Errorf("unexpected id length %d for %q", len(b), hexStr)
	}
	copy(id[:], b)
	return id, nil
}

// TopoTimeWalk shells out to `git log --all --topo-order`, the same
// approach the teacher's GetCommits uses, because go-git's own Log walk
// does not support multi-tip topological ordering.
func (r *Repository) TopoTimeWalk(ctx context.Context) (iter.Seq[commitgraph.ID], error) {
	cmd := exec.CommandContext(ctx, "git", "-C", r.path, "log", "--all", "--topo-order", "--format=%H")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}

	ids := make([]commitgraph.ID, 0, 256)
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := parseID(line)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return func(yield func(commitgraph.ID) bool) {
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}, nil
}

// parentsCache avoids a subprocess per commit: one `git log --all` call
// (hash, parents, subject) populates the parent and message maps up front.
type parentsCache struct {
	parents map[commitgraph.ID][]commitgraph.ID
	message map[commitgraph.ID]string
}

// load lazily builds and caches the parent/message table for the whole
// repository, so Parents/Message calls during a walker run (one per
// commit) do not each spawn a subprocess.
func (r *Repository) load() (*parentsCache, error) {
	if r.cache != nil {
		return r.cache, nil
	}

	cmd := exec.Command("git", "-C", r.path, "log", "--all", "--format=%H%x00%P%x00%s")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}

	cache := &parentsCache{
		parents: make(map[commitgraph.ID][]commitgraph.ID),
		message: make(map[commitgraph.ID]string),
	}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\x00", 3)
		if len(parts) < 3 {
			continue
		}
		id, err := parseID(parts[0])
		if err != nil {
			continue
		}
		var parents []commitgraph.ID
		if parts[1] != "" {
			for _, p := range strings.Split(parts[1], " ") {
				pid, err := parseID(p)
				if err != nil {
					continue
				}
				parents = append(parents, pid)
			}
		}
		cache.parents[id] = parents
		cache.message[id] = parts[2]
	}
	r.cache = cache
	return cache, nil
}

// Parents returns id's parents in author-declared order.
func (r *Repository) Parents(id commitgraph.ID) ([]commitgraph.ID, error) {
	cache, err := r.load()
	if err != nil {
		return nil, err
	}
	return cache.parents[id], nil
}

// Message returns id's one-line summary.
func (r *Repository) Message(id commitgraph.ID) (string, error) {
	cache, err := r.load()
	if err != nil {
		return "", err
	}
	return cache.message[id], nil
}

// Tips returns every branch/tag tip, local and remote combined, reusing the
// teacher's buildRefMap reference classification (GetAllRefs) rather than
// GetBranches, which only enumerates local branches.
func (r *Repository) Tips() (commitgraph.TipMap, error) {
	refMap := r.repo.GetAllRefs()

	tips := make(commitgraph.TipMap)
	for hash, refs := range refMap {
		id, err := parseID(hash)
		if err != nil {
			continue
		}
		for _, ref := range refs {
			tips[id] = append(tips[id], ref.Name)
		}
	}
	return tips, nil
}

// UncommittedSummary reports the working-directory status plus HEAD,
// folding the teacher's GetWorkingTreeFiles status codes into the
// modified/added/deleted counts the engine's uncommitted row needs.
func (r *Repository) UncommittedSummary() (commitgraph.Summary, error) {
	// An unborn HEAD (empty repository) leaves head as the zero id.
	var head commitgraph.ID
	out, err := exec.Command("git", "-C", r.path, "rev-parse", "--verify", "-q", "HEAD").Output()
	if err == nil {
		head, _ = parseID(strings.TrimSpace(string(out)))
	}

	files, err := r.repo.GetWorkingTreeFiles()
	if err != nil {
		return commitgraph.Summary{HeadID: head}, nil
	}

	summary := commitgraph.Summary{HeadID: head}
	for _, f := range files {
		switch f.Status {
		case "A", "?":
			summary.Added++
		case "D":
			summary.Deleted++
		default:
			summary.Modified++
		}
	}
	return summary, nil
}
