// Package mirror maintains the on-disk cache of repository mirrors, one per
// configured remote URL, keyed by a content hash of the URL string.
package mirror

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	goGitHTTP "github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"
)

// Auth carries optional credentials for private HTTPS remotes.
type Auth struct {
	Username string
	Token    string
}

// Manager resolves remote URLs to local mirror directories under a single
// cache root, cloning on first sight and fast-forwarding afterwards.
type Manager struct {
	cacheRoot string
	branch    string
	auth      *Auth
	log       *zap.SugaredLogger
}

// NewManager creates a mirror manager rooted at cacheRoot. branch optionally
// pins clones and pulls to a named branch; empty means the remote's default
// branch. auth may be nil for public remotes.
func NewManager(cacheRoot, branch string, auth *Auth, log *zap.SugaredLogger) *Manager {
	return &Manager{
		cacheRoot: cacheRoot,
		branch:    branch,
		auth:      auth,
		log:       log,
	}
}

// Key returns the mirror directory name for a remote URL: the hex sha1
// digest of the URL string. Stable across runs, distinct per URL string.
func Key(remoteURL string) string {
	sum := sha1.Sum([]byte(remoteURL))
	return hex.EncodeToString(sum[:])
}

// Path returns the local mirror directory for a remote URL.
func (m *Manager) Path(remoteURL string) string {
	return filepath.Join(m.cacheRoot, Key(remoteURL))
}

// Ensure makes sure a usable mirror of remoteURL exists and returns its
// path. A missing mirror is cloned; clone failure is returned to the caller
// so the repository can be skipped for this run. An existing mirror is
// fast-forwarded; a failed update is only a warning and the stale on-disk
// state is returned as usable.
func (m *Manager) Ensure(ctx context.Context, remoteURL string) (string, error) {
	repoDir := m.Path(remoteURL)

	if _, err := os.Stat(repoDir); err == nil {
		m.log.Debugw("pulling updates", "repo", remoteURL)
		if err := m.update(ctx, repoDir); err != nil {
			m.log.Warnw("git pull failed, using stale mirror", "repo", remoteURL, "error", err)
		}
		return repoDir, nil
	}

	m.log.Debugw("cloning", "repo", remoteURL)
	if err := m.clone(ctx, remoteURL, repoDir); err != nil {
		// Leave no partial clone behind, the next run retries from scratch.
		os.RemoveAll(repoDir)
		return "", fmt.Errorf("failed to clone repository from %s: %w", remoteURL, err)
	}

	return repoDir, nil
}

func (m *Manager) clone(ctx context.Context, remoteURL, repoDir string) error {
	opts := &goGit.CloneOptions{
		URL:  remoteURL,
		Auth: m.authMethod(),
	}
	if m.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(m.branch)
		opts.SingleBranch = true
	}

	_, err := goGit.PlainCloneContext(ctx, repoDir, false, opts)
	return err
}

func (m *Manager) update(ctx context.Context, repoDir string) error {
	repo, err := goGit.PlainOpen(repoDir)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", repoDir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get working tree: %w", err)
	}

	opts := &goGit.PullOptions{Auth: m.authMethod()}
	if m.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(m.branch)
		opts.SingleBranch = true
	}

	err = worktree.PullContext(ctx, opts)
	if errors.Is(err, goGit.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

func (m *Manager) authMethod() transport.AuthMethod {
	if m.auth == nil || m.auth.Username == "" || m.auth.Token == "" {
		return nil
	}
	return &goGitHTTP.BasicAuth{
		Username: m.auth.Username,
		Password: m.auth.Token,
	}
}
