package git

import (
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// detectRenames pairs staged deletions with staged additions whose index
// blob equals the deleted file's blob at HEAD, the way git reports an exact
// rename. It returns new path -> old path. Unstaged moves show up as a
// deletion and an untracked file, as they do in git.
func detectRenames(repo *gogit.Repository, st gogit.Status) (map[string]string, error) {
	var deleted, added []string
	for path, fs := range st {
		switch {
		case fs.Staging == gogit.Deleted:
			deleted = append(deleted, path)
		case fs.Staging == gogit.Added && fs.Worktree != gogit.Deleted:
			added = append(added, path)
		}
	}
	if len(deleted) == 0 || len(added) == 0 {
		return nil, nil
	}
	sort.Strings(deleted)
	sort.Strings(added)

	head, err := repo.Head()
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, err
	}

	candidates := make(map[plumbing.Hash][]string, len(added))
	for _, path := range added {
		entry, err := idx.Entry(path)
		if err != nil {
			continue
		}
		candidates[entry.Hash] = append(candidates[entry.Hash], path)
	}

	renames := make(map[string]string)
	for _, old := range deleted {
		f, err := tree.File(old)
		if err != nil {
			continue
		}
		paths := candidates[f.Hash]
		if len(paths) == 0 {
			continue
		}
		renames[paths[0]] = old
		candidates[f.Hash] = paths[1:]
	}
	return renames, nil
}
