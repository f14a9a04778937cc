package git

import (
	"context"
	"sort"

	cerr "github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/telemetry"
)

// GetStatus retrieves the current branch and working-tree status of the
// repository containing repoPath.
func GetStatus(ctx context.Context, repoPath string) (*Status, error) {
	ctx, span := telemetry.Start(ctx, "git.GetStatus")
	defer span.End()
	logger := otelzap.Ctx(ctx)

	repo, err := OpenRepository(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	wt, err := worktree(repo, repoPath)
	if err != nil {
		return nil, err
	}

	st, err := wt.Status()
	if err != nil {
		return nil, scribe_err.NewGitError("failed to get git status", err)
	}

	status := &Status{
		Branch:    currentBranch(repo),
		IsClean:   st.IsClean(),
		Staged:    []string{},
		Modified:  []string{},
		Untracked: []string{},
	}

	for path, fs := range st {
		if fs.Staging == gogit.UpdatedButUnmerged || fs.Worktree == gogit.UpdatedButUnmerged {
			status.HasConflicts = true
		}
		switch {
		case fs.Worktree == gogit.Untracked:
			status.Untracked = append(status.Untracked, path)
			continue
		case fs.Staging != gogit.Unmodified:
			status.Staged = append(status.Staged, path)
		}
		if fs.Worktree != gogit.Unmodified {
			status.Modified = append(status.Modified, path)
		}
	}

	sort.Strings(status.Staged)
	sort.Strings(status.Modified)
	sort.Strings(status.Untracked)

	logger.Debug("Git status retrieved",
		zap.String("branch", status.Branch),
		zap.Bool("is_clean", status.IsClean),
		zap.Int("staged", len(status.Staged)),
		zap.Int("modified", len(status.Modified)),
		zap.Int("untracked", len(status.Untracked)))

	return status, nil
}

// currentBranch returns the short branch name, also for an unborn branch
// with no commits yet. Detached HEAD yields "HEAD".
func currentBranch(repo *gogit.Repository) string {
	head, err := repo.Head()
	if err == nil {
		if head.Name().IsBranch() {
			return head.Name().Short()
		}
		return "HEAD"
	}
	if !cerr.Is(err, plumbing.ErrReferenceNotFound) {
		return ""
	}
	ref, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return ""
	}
	return ref.Target().Short()
}
