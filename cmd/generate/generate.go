// cmd/generate/generate.go

package generate

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git/commit"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_cli"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
)

// NewGenerateCmd returns the `scribe generate` command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message for the uncommitted changes",
		Long: `Inspect the uncommitted changes of a git working tree and print a
conventional commit message on stdout.

With an AI provider configured (see 'scribe ai configure') the message is
written by the model. Without one, or whenever the provider fails, fixed
heuristic rules produce the message instead.

Examples:
  scribe generate
  scribe generate --repo ../service --no-ai
  git commit -m "$(scribe generate)"`,
		Args: cobra.NoArgs,
		RunE: scribe_cli.Wrap(runGenerate),
	}

	scribe_cli.AddStringFlag(cmd, "repo", "r", ".", "Path inside the git working tree", false)
	scribe_cli.AddBoolFlag(cmd, "allow-empty", "", false, "Print a message even when there are no changes")
	addSynthesisFlags(cmd)
	return cmd
}

func runGenerate(rc *scribe_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	v, err := scribe_cli.NewViper(cmd)
	if err != nil {
		return err
	}
	repo := v.GetString("repo")

	records, err := discover(rc, repo)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		if !v.GetBool("allow-empty") {
			logger.Info("No changes detected", zap.String("repo", repo))
			return nil
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), commit.EmptyMessage)
		return err
	}

	s := newSynthesis(rc, v)

	msg, source := s.generate(rc.Ctx, records)
	rc.Attributes["message_source"] = string(source)
	rc.Attributes["provider"] = s.provider

	logger.Debug("Commit message generated",
		zap.Int("changes", len(records)),
		zap.String("source", string(source)))

	_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return err
}

// discover lists changes, logging per-file warnings without failing.
func discover(rc *scribe_io.RuntimeContext, repo string) ([]changes.Record, error) {
	logger := otelzap.Ctx(rc.Ctx)

	records, err := git.DiscoverChanges(rc.Ctx, repo)
	var warnings *git.DiscoveryWarnings
	switch {
	case errors.As(err, &warnings):
		logger.Warn("Some files could not be read, using generic descriptions",
			zap.Int("count", warnings.Len()),
			zap.Error(warnings))
	case err != nil:
		return nil, err
	}

	logBranchState(rc, repo)
	return records, nil
}

// logBranchState records the branch and warns about unresolved conflicts,
// whose files would otherwise be described as plain modifications.
func logBranchState(rc *scribe_io.RuntimeContext, repo string) {
	logger := otelzap.Ctx(rc.Ctx)

	status, err := git.GetStatus(rc.Ctx, repo)
	if err != nil {
		logger.Debug("Branch state unavailable", zap.Error(err))
		return
	}

	rc.Attributes["branch"] = status.Branch
	logger.Debug("Working tree state",
		zap.String("branch", status.Branch),
		zap.Int("staged", len(status.Staged)),
		zap.Int("modified", len(status.Modified)),
		zap.Int("untracked", len(status.Untracked)))

	if status.HasConflicts {
		logger.Warn("Repository has unresolved merge conflicts", zap.String("branch", status.Branch))
	}
}
