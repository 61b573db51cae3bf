// Package history walks a local mirror's commit history and extracts the
// commits that appeared since the previously recorded watermark.
package history

import (
	"fmt"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// NewSince returns the commits reachable from the mirror's HEAD that are
// newer than lastSeen, newest first.
//
// The walk stops, in order of precedence, when maxCount records have been
// collected (maxCount <= 0 means uncapped), when a commit's id equals
// lastSeen (exclusive: that commit and its ancestors are skipped), or when
// history is exhausted. An empty lastSeen means the repository has never
// been observed and the walk runs to the cap or to the root.
//
// Element 0 of a non-empty result is the watermark candidate for the next
// run.
func NewSince(repoPath, lastSeen string, maxCount int) ([]Commit, error) {
	repo, err := goGit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", repoPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get repository head: %w", err)
	}

	iter, err := repo.Log(&goGit.LogOptions{From: head.Hash(), Order: goGit.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if maxCount > 0 && len(commits) >= maxCount {
			return storer.ErrStop
		}
		if c.Hash.String() == lastSeen {
			return storer.ErrStop
		}
		commits = append(commits, newCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history: %w", err)
	}

	return commits, nil
}
