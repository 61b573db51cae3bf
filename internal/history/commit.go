package history

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
)

const changeIDTrailer = "Change-Id:"

// Commit is a display-ready view of a single new commit. Records are built
// fresh on every run and never persisted.
type Commit struct {
	ID       string
	Date     string
	Author   string
	Message  string
	ChangeID string
}

func newCommit(c *object.Commit) Commit {
	author := c.Author.Name
	if author == "" {
		author = "Unknown"
	}

	return Commit{
		ID:       c.Hash.String(),
		Date:     c.Author.When.Local().Format("2006-01-02 15:04:05"),
		Author:   author,
		Message:  summaryOf(c.Message),
		ChangeID: changeIDOf(c.Message),
	}
}

// summaryOf returns the first line of a commit message.
func summaryOf(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimRight(message, "\r")
}

// changeIDOf scans the full commit message for the first Change-Id trailer
// line and returns its value, or "" if the message carries none.
func changeIDOf(message string) string {
	for _, line := range strings.Split(message, "\n") {
		if value, ok := strings.CutPrefix(line, changeIDTrailer); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
