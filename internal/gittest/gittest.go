// Package gittest builds small on-disk git repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

var (
	clockMu sync.Mutex
	clock   = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

// nextWhen hands out strictly increasing commit timestamps so committer-time
// ordering is deterministic across a test run.
func nextWhen() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()
	clock = clock.Add(time.Minute)
	return clock
}

// Init creates an empty repository in a fresh temp directory and returns
// its path.
func Init(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_, err := goGit.PlainInit(dir, false)
	require.NoError(t, err)
	return dir
}

// Commit writes file with content into the repository, commits it with
// message and returns the commit hash.
func Commit(t *testing.T, repoPath, file, content, message string) string {
	t.Helper()

	repo, err := goGit.PlainOpen(repoPath)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, file), []byte(content), 0o644))
	_, err = worktree.Add(file)
	require.NoError(t, err)

	sig := &object.Signature{
		Name:  "Test Author",
		Email: "author@example.com",
		When:  nextWhen(),
	}
	hash, err := worktree.Commit(message, &goGit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	return hash.String()
}
