// Package main provides the lazytag CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lazytag/internal/changeset"
	"lazytag/internal/comment"
	"lazytag/internal/gitio"
	"lazytag/internal/hook"
	"lazytag/internal/report"
	"lazytag/internal/tagger"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "lazytag",
	Short:   "Append issue-tracker tags to modified source lines",
	Long:    `lazytag appends Jira-style issue tags (e.g. ABC-1234) to the lines a commit touches, derived from the branch name or given explicitly, so changed code carries traceability metadata in an inline comment.`,
	Version: version,
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Tag modified lines in the current repository",
	RunE:  runTag,
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install lazytag as a Git pre-commit hook",
	RunE:  runInstall,
}

var (
	repoPath  string
	tagFlag   string
	dryRun    bool
	scopeFlag string
	baseFlag  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "Path to the Git repository")
	tagCmd.Flags().StringVar(&tagFlag, "tag", "", "Tag to apply (e.g. ABC-1234); overrides the branch-derived tag")
	tagCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying files")
	tagCmd.Flags().StringVar(&scopeFlag, "scope", string(changeset.ScopeStaged), "Which changes to tag: staged or base")
	tagCmd.Flags().StringVar(&baseFlag, "base", changeset.FallbackBase, "Base branch for --scope=base")

	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(installCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTag(cmd *cobra.Command, args []string) error {
	repo, err := gitio.Open(repoPath)
	if err != nil {
		return err
	}

	table, err := comment.Load(repo.Root())
	if err != nil {
		return err
	}

	runner := &tagger.Runner{
		Git:    repo,
		Branch: repo,
		Stage:  repo,
		Root:   repo.Root(),
		Table:  table,
		Report: report.New(os.Stdout),
	}
	return runner.Run(cmd.Context(), tagger.Options{
		Tag:    tagFlag,
		DryRun: dryRun,
		Scope:  changeset.Scope(scopeFlag),
		Base:   baseFlag,
	})
}

func runInstall(cmd *cobra.Command, args []string) error {
	repo, err := gitio.Open(repoPath)
	if err != nil {
		return err
	}

	rep := report.New(os.Stdout)
	hookPath, backupPath, err := hook.Install(repo.HooksDir())
	if err != nil {
		return err
	}
	if backupPath != "" {
		rep.Backupf("Existing pre-commit hook backed up to: %s", backupPath)
	}
	rep.Successf("lazytag hook installed at: %s", hookPath)
	return nil
}
