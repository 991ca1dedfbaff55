// Package tagger applies an issue tag to the changed lines of source files:
// the per-file processor and the run driver that feeds it.
package tagger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lukechampine.com/blake3"

	"lazytag/internal/changeset"
	"lazytag/internal/classify"
	"lazytag/internal/comment"
	"lazytag/internal/report"
	"lazytag/internal/rewrite"
	"lazytag/internal/tags"
)

// ErrNoTag indicates no tag was supplied and none could be derived from the
// branch name.
var ErrNoTag = errors.New("no issue tag found (use --tag or a branch like ABC-1234-feature)")

// StageWriter re-stages a rewritten file so the commit picks it up. It is
// satisfied by gitio.Repository.
type StageWriter interface {
	Add(path string) error
}

// Branches reports the currently checked-out branch.
type Branches interface {
	CurrentBranch() (string, error)
}

// Result counts the decisions taken over one file, or aggregated over a run.
type Result struct {
	Tagged  int
	Skipped int
}

// Processor rewrites one file's changed lines.
type Processor struct {
	Root   string // working tree root; processed paths are relative to it
	Table  *comment.Table
	Stage  StageWriter
	Report *report.Reporter
}

// Process rewrites the lines of path listed in changed, applying tag. In
// dry-run mode nothing is written or staged; every intended change is still
// reported. Lines outside changed pass through byte for byte.
func (p *Processor) Process(path, tag string, dryRun bool, changed changeset.LineSet) (Result, error) {
	delim, ok := p.Table.Delimiter(path)
	if !ok {
		// The resolvers never select such files; reaching here is a bug.
		return Result{}, fmt.Errorf("no comment delimiter for %s", path)
	}

	abs := filepath.Join(p.Root, path)
	data, err := os.ReadFile(abs)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}

	content := string(data)
	hadFinalNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	var res Result
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		n := i + 1
		if !changed.Contains(n) {
			out = append(out, line)
			continue
		}

		if tags.Contains(tags.Extract(line), tag) {
			res.Skipped++
			if dryRun {
				p.Report.Skipf("%s:%d already tagged with %s", path, n, tag)
			}
			out = append(out, line)
			continue
		}

		var rewritten string
		switch classify.Line(line, delim) {
		case classify.Code:
			rewritten = rewrite.CodeLine(line, delim, tag)
		case classify.RemovalMarker:
			rewritten = rewrite.RemovalMarker(line, delim, tag)
		default:
			out = append(out, line)
			continue
		}

		res.Tagged++
		if dryRun {
			p.Report.DryRunf("%s:%d --> %s", path, n, rewritten)
		} else {
			p.Report.Taggedf("%s:%d --> %s", path, n, rewritten)
		}
		out = append(out, rewritten)
	}

	if dryRun {
		return res, nil
	}

	// The content digest decides whether anything is written or re-staged.
	updated := strings.Join(out, "\n")
	if hadFinalNewline {
		updated += "\n"
	}
	newData := []byte(updated)
	if blake3.Sum256(newData) == blake3.Sum256(data) {
		return res, nil
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(abs, newData, info.Mode().Perm()); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := p.Stage.Add(path); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Options configure a tagging run.
type Options struct {
	Tag    string // explicit tag; derived from the branch when empty
	DryRun bool
	Scope  changeset.Scope
	Base   string // base branch for ScopeBase
}

// Runner drives a full tagging pass over the repository.
type Runner struct {
	Git    changeset.GitSource
	Branch Branches
	Stage  StageWriter
	Root   string
	Table  *comment.Table
	Report *report.Reporter
}

// Run resolves the effective tag and the change set, processes every file,
// and prints the final summary.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	tag, err := r.effectiveTag(opts.Tag)
	if err != nil {
		return err
	}

	resolver := &changeset.Resolver{Git: r.Git, Table: r.Table, Report: r.Report}
	cs, err := resolver.Resolve(ctx, opts.Scope, opts.Base)
	if err != nil {
		return err
	}
	if len(cs) == 0 {
		r.Report.Infof("No changed source files to process.")
		return nil
	}

	r.Report.Infof("Tagging with: %s", tag)
	proc := &Processor{Root: r.Root, Table: r.Table, Stage: r.Stage, Report: r.Report}

	var total Result
	for _, path := range cs.Paths() {
		res, err := proc.Process(path, tag, opts.DryRun, cs[path])
		if err != nil {
			return err
		}
		total.Tagged += res.Tagged
		total.Skipped += res.Skipped
	}

	r.Report.Blank()
	if opts.DryRun {
		r.Report.DryRunf("Complete. %d line(s) would be tagged, %d already tagged. No files were modified.",
			total.Tagged, total.Skipped)
	} else {
		r.Report.Successf("Tagging complete. %d line(s) tagged, %d already tagged.",
			total.Tagged, total.Skipped)
	}
	return nil
}

func (r *Runner) effectiveTag(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	branch, err := r.Branch.CurrentBranch()
	if err != nil {
		return "", ErrNoTag
	}
	tag := tags.First(branch)
	if tag == "" {
		return "", ErrNoTag
	}
	return tag, nil
}
