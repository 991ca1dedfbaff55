package gitio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return repo, dir
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, content, msg string) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatal(err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

func TestOpen_DetectsDotGitFromSubdir(t *testing.T) {
	repo, dir := initRepo(t)
	commitFile(t, repo, dir, "main.py", "x = 1\n", "initial")

	sub := filepath.Join(dir, "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	r, err := Open(sub)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(r.Root())
	if got != want {
		t.Errorf("Root = %q, expected %q", got, want)
	}
}

func TestCurrentBranch(t *testing.T) {
	repo, dir := initRepo(t)
	commitFile(t, repo, dir, "main.py", "x = 1\n", "initial")

	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	branch, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if branch != "master" {
		t.Errorf("branch = %q, expected master", branch)
	}
}

func TestStagedPaths(t *testing.T) {
	repo, dir := initRepo(t)
	commitFile(t, repo, dir, "main.py", "x = 1\n", "initial")

	// One staged modification, one untracked file left unstaged.
	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte("x = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "loose.py"), []byte("y = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wt, _ := repo.Worktree()
	if _, err := wt.Add("main.py"); err != nil {
		t.Fatal(err)
	}

	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	paths, err := r.StagedPaths(context.Background())
	if err != nil {
		t.Fatalf("StagedPaths failed: %v", err)
	}

	if len(paths) != 1 || paths[0] != "main.py" {
		t.Errorf("StagedPaths = %v, expected [main.py]", paths)
	}
}

func TestAdd(t *testing.T) {
	repo, dir := initRepo(t)
	commitFile(t, repo, dir, "main.py", "x = 1\n", "initial")

	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte("x = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := r.Add("main.py"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	paths, err := r.StagedPaths(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != "main.py" {
		t.Errorf("StagedPaths after Add = %v", paths)
	}
}

func TestMergeBaseDiff(t *testing.T) {
	repo, dir := initRepo(t)
	base := commitFile(t, repo, dir, "main.py", "x = 1\n", "initial")

	// Branch develop stays at the first commit, master moves on.
	devRef := plumbing.NewHashReference(plumbing.NewBranchReferenceName("develop"), base)
	if err := repo.Storer.SetReference(devRef); err != nil {
		t.Fatal(err)
	}
	commitFile(t, repo, dir, "main.py", "x = 1\ny = 2\n", "add y")

	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	diff, err := r.MergeBaseDiff(context.Background(), "develop")
	if err != nil {
		t.Fatalf("MergeBaseDiff failed: %v", err)
	}

	if !strings.Contains(diff, "+++ b/main.py") {
		t.Errorf("missing target header: %q", diff)
	}
	if !strings.Contains(diff, "+y = 2") {
		t.Errorf("missing added line: %q", diff)
	}
	if strings.Contains(diff, " x = 1") {
		t.Errorf("expected zero context lines: %q", diff)
	}
}

func TestMergeBaseDiff_UnresolvableRef(t *testing.T) {
	repo, dir := initRepo(t)
	commitFile(t, repo, dir, "main.py", "x = 1\n", "initial")

	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_, err = r.MergeBaseDiff(context.Background(), "no-such-branch")
	if !errors.Is(err, ErrNoRef) {
		t.Fatalf("expected ErrNoRef, got %v", err)
	}
}

func TestStagedDiff(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	repo, dir := initRepo(t)
	commitFile(t, repo, dir, "main.py", "x = 1\n", "initial")

	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte("x = 1\ny = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wt, _ := repo.Worktree()
	if _, err := wt.Add("main.py"); err != nil {
		t.Fatal(err)
	}

	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	diff, err := r.StagedDiff(context.Background(), "main.py")
	if err != nil {
		t.Fatalf("StagedDiff failed: %v", err)
	}
	if !strings.Contains(diff, "+y = 2") {
		t.Errorf("missing added line: %q", diff)
	}
	if !strings.Contains(diff, "@@") {
		t.Errorf("missing hunk header: %q", diff)
	}
}
