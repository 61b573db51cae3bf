package report

import (
	"strings"

	"github.com/margo/gitmon/internal/history"
)

// linkRule derives a commit-view URL for a known hosting provider. Rules are
// an ordered table so adding a host is a data change, not new control flow.
type linkRule struct {
	// hostPattern is matched as a substring of the repository URL.
	hostPattern string
	build       func(repoURL string, c history.Commit) string
}

var linkRules = []linkRule{
	{
		hostPattern: "github.com",
		build: func(repoURL string, c history.Commit) string {
			return strings.TrimSuffix(repoURL, ".git") + "/commit/" + c.ID
		},
	},
	{
		hostPattern: "gitlab.com",
		build: func(repoURL string, c history.Commit) string {
			return strings.TrimSuffix(repoURL, ".git") + "/-/commit/" + c.ID + ".patch"
		},
	},
	{
		hostPattern: "bitbucket.org",
		build: func(repoURL string, c history.Commit) string {
			return strings.TrimSuffix(repoURL, ".git") + "/commits/" + c.ID + ".patch"
		},
	},
	{
		hostPattern: "gerrit",
		build: func(repoURL string, c history.Commit) string {
			// Review URLs need the change id from the commit trailer; without
			// one there is nothing to link to.
			if c.ChangeID == "" {
				return ""
			}
			return trimAfterHost(strings.TrimSuffix(repoURL, ".git")) + "/r/q/" + c.ChangeID
		},
	},
}

// CommitURL returns the commit-view hyperlink for a commit of the given
// repository, or "" when no hosting rule applies. Total over its inputs.
func CommitURL(repoURL string, c history.Commit) string {
	for _, rule := range linkRules {
		if !strings.Contains(repoURL, rule.hostPattern) {
			continue
		}
		if url := rule.build(repoURL, c); url != "" {
			return url
		}
	}
	return ""
}

// trimAfterHost cuts a URL down to its scheme and authority:
// "https://gerrit.example.com/project" becomes "https://gerrit.example.com".
func trimAfterHost(url string) string {
	rest := url
	prefix := 0
	if i := strings.Index(url, "://"); i >= 0 {
		prefix = i + 3
		rest = url[prefix:]
	}
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		return url[:prefix+j]
	}
	return url
}
