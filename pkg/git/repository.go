// Package git discovers working-tree changes with go-git and turns them
// into change records for commit message synthesis.
package git

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
)

// OpenRepository opens the repository containing repoPath, searching parent
// directories for .git the way the git CLI does.
func OpenRepository(ctx context.Context, repoPath string) (*gogit.Repository, error) {
	logger := otelzap.Ctx(ctx)

	if repoPath == "" {
		repoPath = "."
	}

	repo, err := gogit.PlainOpenWithOptions(repoPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if cerr.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, scribe_err.NewGitError(
				"not a git repository: "+repoPath, err,
				"Run scribe inside a git working tree",
				"Or point it at one with --repo",
			)
		}
		return nil, scribe_err.NewGitError("failed to open repository "+repoPath, err)
	}

	logger.Debug("Repository opened", zap.String("path", repoPath))
	return repo, nil
}

func worktree(repo *gogit.Repository, repoPath string) (*gogit.Worktree, error) {
	wt, err := repo.Worktree()
	if err != nil {
		if cerr.Is(err, gogit.ErrIsBareRepository) {
			return nil, scribe_err.NewGitError("repository has no working tree: "+repoPath, err)
		}
		return nil, scribe_err.NewGitError("failed to open working tree", err)
	}
	return wt, nil
}
