package git

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
)

func TestGetStatus(t *testing.T) {
	ctx := setupLogger(t)
	r := newTestRepo(t, map[string]string{
		"a.go": "package a\n",
		"b.go": "package a\n",
	})

	r.write("a.go", "package a\n\nfunc A() {}\n")
	r.write("c.go", "package a\n")
	r.write("b.go", "package a\n\nvar B = 1\n")
	r.stage("b.go")

	status, err := GetStatus(ctx, r.dir)
	require.NoError(t, err)

	head, err := r.repo.Head()
	require.NoError(t, err)
	assert.Equal(t, head.Name().Short(), status.Branch)
	assert.False(t, status.IsClean)
	assert.False(t, status.HasConflicts)
	assert.Equal(t, []string{"b.go"}, status.Staged)
	assert.Equal(t, []string{"a.go"}, status.Modified)
	assert.Equal(t, []string{"c.go"}, status.Untracked)
}

func TestGetStatusClean(t *testing.T) {
	ctx := setupLogger(t)
	r := newTestRepo(t, map[string]string{"a.go": "package a\n"})

	status, err := GetStatus(ctx, r.dir)
	require.NoError(t, err)
	assert.True(t, status.IsClean)
	assert.Empty(t, status.Staged)
	assert.Empty(t, status.Modified)
	assert.Empty(t, status.Untracked)
}

func TestGetStatusUnbornBranch(t *testing.T) {
	ctx := setupLogger(t)
	r := newTestRepo(t, nil)
	r.write("first.go", "package main\n")

	status, err := GetStatus(ctx, r.dir)
	require.NoError(t, err)
	assert.Equal(t, "master", status.Branch)
	assert.Equal(t, []string{"first.go"}, status.Untracked)
}

func TestGetStatusNotARepository(t *testing.T) {
	ctx := setupLogger(t)

	_, err := GetStatus(ctx, t.TempDir())
	require.Error(t, err)
	var classified *scribe_err.ClassifiedError
	require.True(t, errors.As(err, &classified))
	assert.Equal(t, scribe_err.CategoryGit, classified.Category)
}
