// Package changeset computes the set of modified line numbers per file for a
// tagging run, from either the staged diff or a diff against a merge base.
package changeset

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"lazytag/internal/comment"
	"lazytag/internal/gitio"
	"lazytag/internal/report"
)

// Scope selects which diff the change set is computed from.
type Scope string

const (
	// ScopeStaged tags the lines added in the staged diff.
	ScopeStaged Scope = "staged"
	// ScopeBase tags the lines added since the merge base with a base branch.
	ScopeBase Scope = "base"
)

// FallbackBase is tried when the requested base branch cannot be resolved.
const FallbackBase = "develop"

// LineSet is a set of 1-based line numbers.
type LineSet map[int]struct{}

// Add inserts n into the set.
func (s LineSet) Add(n int) {
	s[n] = struct{}{}
}

// Contains reports whether n is in the set.
func (s LineSet) Contains(n int) bool {
	_, ok := s[n]
	return ok
}

// ChangeSet maps a file path to the line numbers considered modified in the
// current scope. Built once per invocation and read-only afterwards.
type ChangeSet map[string]LineSet

// Paths returns the files of the change set in sorted order.
func (c ChangeSet) Paths() []string {
	paths := make([]string, 0, len(c))
	for path := range c {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// GitSource supplies the version-control queries the resolvers need. It is
// satisfied by gitio.Repository.
type GitSource interface {
	StagedPaths(ctx context.Context) ([]string, error)
	StagedDiff(ctx context.Context, path string) (string, error)
	MergeBaseDiff(ctx context.Context, base string) (string, error)
}

// Resolver builds change sets from a git source, keeping only files the
// delimiter table selects.
type Resolver struct {
	Git    GitSource
	Table  *comment.Table
	Report *report.Reporter
}

// Resolve builds the change set for the requested scope. For ScopeBase,
// base names the branch to diff against.
func (r *Resolver) Resolve(ctx context.Context, scope Scope, base string) (ChangeSet, error) {
	switch scope {
	case ScopeStaged:
		return r.staged(ctx)
	case ScopeBase:
		return r.baseDiff(ctx, base)
	default:
		return nil, fmt.Errorf("unknown scope %q", scope)
	}
}

func (r *Resolver) staged(ctx context.Context) (ChangeSet, error) {
	paths, err := r.Git.StagedPaths(ctx)
	if err != nil {
		return nil, err
	}

	cs := ChangeSet{}
	for _, path := range paths {
		if !r.Table.Selects(path) {
			continue
		}
		diff, err := r.Git.StagedDiff(ctx, path)
		if err != nil {
			return nil, err
		}
		lines := AddedLines(diff)
		if len(lines) > 0 {
			cs[path] = lines
		}
	}
	return cs, nil
}

func (r *Resolver) baseDiff(ctx context.Context, base string) (ChangeSet, error) {
	diff, err := r.Git.MergeBaseDiff(ctx, base)
	if errors.Is(err, gitio.ErrNoRef) && base != FallbackBase {
		r.Report.Warnf("base branch %q not resolvable, falling back to %q", base, FallbackBase)
		diff, err = r.Git.MergeBaseDiff(ctx, FallbackBase)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving base for diff: %w", err)
	}

	cs := ChangeSet{}
	for path, lines := range ParseUnified(diff) {
		if r.Table.Selects(path) {
			cs[path] = lines
		}
	}
	return cs, nil
}

// A zero-context hunk header encodes the added lines directly:
// @@ -a[,b] +START[,COUNT] @@ covers [START, START+COUNT), COUNT default 1.
var hunkRe = regexp.MustCompile(`\+(\d+)(?:,(\d+))?`)

// ParseUnified extracts the added line numbers per target file from a
// zero-context unified diff. Paths come from the "+++ " target headers with
// the destination prefix stripped; deleted files contribute nothing.
func ParseUnified(diff string) ChangeSet {
	cs := ChangeSet{}
	current := ""
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++ "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
			name = strings.TrimPrefix(name, "b/")
			if name == "/dev/null" {
				current = ""
				continue
			}
			current = name
		case strings.HasPrefix(line, "@@"):
			if current == "" {
				continue
			}
			for _, n := range hunkLines(line) {
				if cs[current] == nil {
					cs[current] = LineSet{}
				}
				cs[current].Add(n)
			}
		}
	}
	return cs
}

// AddedLines merges the added line numbers of every file in diff into one
// set. Used for single-file staged diffs.
func AddedLines(diff string) LineSet {
	merged := LineSet{}
	for _, lines := range ParseUnified(diff) {
		for n := range lines {
			merged.Add(n)
		}
	}
	return merged
}

// hunkLines expands one hunk header into the added line numbers it covers.
func hunkLines(header string) []int {
	m := hunkRe.FindStringSubmatch(header)
	if m == nil {
		return nil
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	count := 1
	if m[2] != "" {
		count, err = strconv.Atoi(m[2])
		if err != nil {
			return nil
		}
	}
	lines := make([]int, 0, count)
	for i := 0; i < count; i++ {
		lines = append(lines, start+i)
	}
	return lines
}
