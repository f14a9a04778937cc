package git

import (
	"bytes"
	"context"
	"io"
	"sort"

	cerr "github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/describe"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/telemetry"
)

// MaxDescribeBytes caps the size of files passed to the describer. Larger
// files keep their generic description.
const MaxDescribeBytes = 1 << 20

// binarySniffLen is how much of a file is checked for NUL bytes.
const binarySniffLen = 8000

// DiscoveryWarnings collects per-file problems that did not stop discovery.
// It is returned alongside a usable record list.
type DiscoveryWarnings struct {
	merr *multierror.Error
}

func (w *DiscoveryWarnings) Error() string {
	return w.merr.Error()
}

// Unwrap exposes the individual warnings to errors.Is and errors.As.
func (w *DiscoveryWarnings) Unwrap() []error {
	return w.merr.WrappedErrors()
}

// Len returns the number of warnings.
func (w *DiscoveryWarnings) Len() int {
	return len(w.merr.Errors)
}

// DiscoverChanges lists the uncommitted changes of the repository containing
// repoPath as change records sorted by path. Added and modified text files
// are described from their working-tree content.
//
// A non-nil *DiscoveryWarnings error may accompany a valid record list;
// any other error means discovery failed.
func DiscoverChanges(ctx context.Context, repoPath string) ([]changes.Record, error) {
	ctx, span := telemetry.Start(ctx, "git.DiscoverChanges")
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

	renames, err := detectRenames(repo, st)
	if err != nil {
		logger.Debug("Rename detection skipped", zap.Error(err))
	}
	renamedFrom := make(map[string]bool, len(renames))
	for _, old := range renames {
		renamedFrom[old] = true
	}

	paths := make([]string, 0, len(st))
	for p := range st {
		if !renamedFrom[p] {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var warnings *multierror.Error
	records := make([]changes.Record, 0, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, cerr.Wrap(err, "change discovery interrupted")
		}

		kind, ok := kindFor(st[path])
		if !ok {
			continue
		}
		if old, renamed := renames[path]; renamed {
			kind = changes.KindRenamed
			logger.Debug("Rename detected", zap.String("from", old), zap.String("to", path))
		}
		rec := changes.NewRecord(path, kind)

		if kind == changes.KindAdded || kind == changes.KindModified {
			content, readable, err := readText(wt, path)
			switch {
			case err != nil:
				warnings = multierror.Append(warnings, cerr.Wrapf(err, "read %s", path))
				logger.Debug("Keeping generic description", zap.String("path", path), zap.Error(err))
			case readable:
				rec.Description = describe.Describe(content, path, rec.Language)
			}
		}

		records = append(records, rec)
	}

	warned := 0
	if warnings != nil {
		warned = len(warnings.Errors)
	}
	span.SetAttributes(
		attribute.Int("changes.count", len(records)),
		attribute.Int("changes.warnings", warned),
	)
	logger.Debug("Changes discovered",
		zap.Int("records", len(records)),
		zap.Int("warnings", warned))

	if warned > 0 {
		return records, &DiscoveryWarnings{merr: warnings}
	}
	return records, nil
}

// kindFor maps a go-git file status to a change kind. The worktree code
// wins unless it is unmodified; a file staged as added stays added while it
// still exists. ok is false for entries with nothing to report.
func kindFor(fs *gogit.FileStatus) (kind changes.Kind, ok bool) {
	if fs.Staging == gogit.Added && fs.Worktree != gogit.Deleted {
		return changes.KindAdded, true
	}

	code := fs.Worktree
	if code == gogit.Unmodified {
		code = fs.Staging
	}

	switch code {
	case gogit.Unmodified:
		return "", false
	case gogit.Untracked, gogit.Added:
		return changes.KindAdded, true
	case gogit.Modified:
		return changes.KindModified, true
	case gogit.Deleted:
		return changes.KindDeleted, true
	case gogit.Renamed:
		return changes.KindRenamed, true
	default:
		// Copied and unmerged entries are reported as modifications.
		return changes.KindModified, true
	}
}

// readText reads path from the working tree. readable is false, with a nil
// error, for binary or oversized files.
func readText(wt *gogit.Worktree, path string) (content string, readable bool, err error) {
	info, err := wt.Filesystem.Lstat(path)
	if err != nil {
		return "", false, err
	}
	if !info.Mode().IsRegular() || info.Size() > MaxDescribeBytes {
		return "", false, nil
	}

	f, err := wt.Filesystem.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxDescribeBytes+1))
	if err != nil {
		return "", false, err
	}
	if len(data) > MaxDescribeBytes || isBinary(data) {
		return "", false, nil
	}
	return string(data), true, nil
}

func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}
