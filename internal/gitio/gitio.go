// Package gitio provides Git repository I/O using go-git, plus the staged
// diff query that still needs the git binary.
package gitio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNoRef indicates a reference could not be resolved to a commit.
var ErrNoRef = errors.New("reference not resolvable")

// Repository wraps a go-git repository rooted at a working tree.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing path, walking up to find .git.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	return &Repository{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the working tree root.
func (r *Repository) Root() string {
	return r.root
}

// HooksDir returns the repository's hooks directory.
func (r *Repository) HooksDir() string {
	return filepath.Join(r.root, ".git", "hooks")
}

// CurrentBranch returns the short name of the checked-out branch.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// resolveCommit resolves name as a local branch, then a tag, then a commit
// hash. Failures wrap ErrNoRef so callers can fall back to another base.
func (r *Repository) resolveCommit(name string) (*object.Commit, error) {
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err == nil {
		commit, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			return nil, fmt.Errorf("getting commit for branch %q: %w", name, err)
		}
		return commit, nil
	}

	ref, err = r.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err == nil {
		commit, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			return nil, fmt.Errorf("getting commit for tag %q: %w", name, err)
		}
		return commit, nil
	}

	commit, err := r.repo.CommitObject(plumbing.NewHash(name))
	if err != nil {
		return nil, fmt.Errorf("resolving %q: not a branch, tag, or commit hash: %w", name, ErrNoRef)
	}
	return commit, nil
}

// MergeBaseDiff renders a zero-context unified diff between the common
// ancestor of base and HEAD, and HEAD. If base cannot be resolved or shares
// no history with HEAD, the error wraps ErrNoRef.
func (r *Repository) MergeBaseDiff(ctx context.Context, base string) (string, error) {
	baseCommit, err := r.resolveCommit(base)
	if err != nil {
		return "", err
	}

	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	headCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("getting HEAD commit: %w", err)
	}

	ancestors, err := baseCommit.MergeBase(headCommit)
	if err != nil || len(ancestors) == 0 {
		return "", fmt.Errorf("no common ancestor with %q: %w", base, ErrNoRef)
	}

	patch, err := ancestors[0].PatchContext(ctx, headCommit)
	if err != nil {
		return "", fmt.Errorf("computing diff against %q: %w", base, err)
	}

	var buf bytes.Buffer
	if err := fdiff.NewUnifiedEncoder(&buf, 0).Encode(patch); err != nil {
		return "", fmt.Errorf("rendering diff: %w", err)
	}
	return buf.String(), nil
}

// StagedPaths returns the working-tree-relative paths with staged additions
// or modifications, sorted for deterministic processing order.
func (r *Repository) StagedPaths(ctx context.Context) ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	var paths []string
	for path, st := range status {
		switch st.Staging {
		case git.Added, git.Modified, git.Renamed, git.Copied:
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// StagedDiff returns the zero-context diff between HEAD and the index for
// path. go-git has no index-vs-HEAD patch, so this one query shells out.
func (r *Repository) StagedDiff(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "-U0", "--", path)
	cmd.Dir = r.root
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff --cached %s: %w", path, err)
	}
	return string(out), nil
}

// Add stages path so the commit picks up the rewritten file.
func (r *Repository) Add(path string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := wt.Add(path); err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	return nil
}
