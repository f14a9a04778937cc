package git

// Status summarises the working tree the way `git status` does.
type Status struct {
	Branch       string
	IsClean      bool
	HasConflicts bool
	Staged       []string
	Modified     []string
	Untracked    []string
}
