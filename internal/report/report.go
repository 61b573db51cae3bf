// Package report renders the per-repository commit lists into a single HTML
// document, linking commit ids to their hosting provider where possible.
package report

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/margo/gitmon/internal/history"
)

// templatePlaceholder is the token replaced with the rendered tables when a
// user-supplied template file is in use.
const templatePlaceholder = "{{tables}}"

// Aggregate maps repository URL to its new commits for the current run,
// newest first.
type Aggregate map[string][]history.Commit

type rowView struct {
	ID      string
	Href    string
	Date    string
	Author  string
	Message string
}

type sectionView struct {
	URL     string
	Commits []rowView
}

var tablesTmpl = template.Must(template.New("tables").Parse(
	`{{range .}}<h2>Repository: {{.URL}}</h2>` +
		`<table border="1"><tr><th>ID</th><th>Date</th><th>Author</th><th>Message</th></tr>` +
		`{{range .Commits}}<tr><td>{{if .Href}}<a href="{{.Href}}">{{.ID}}</a>{{else}}{{.ID}}{{end}}</td>` +
		`<td>{{.Date}}</td><td>{{.Author}}</td><td>{{.Message}}</td></tr>{{end}}` +
		`</table>{{end}}`))

// Render produces the full HTML report. repoOrder fixes the section order
// (the configured repository order); repositories with no new commits are
// omitted entirely. If templatePath names a readable file, its
// {{tables}} token is substituted with the rendered tables; otherwise a
// minimal self-contained wrapper is used. A template read failure silently
// falls back to the wrapper.
func Render(aggregate Aggregate, repoOrder []string, templatePath string) string {
	var sections []sectionView
	for _, repo := range repoOrder {
		commits := aggregate[repo]
		if len(commits) == 0 {
			continue
		}

		section := sectionView{URL: repo}
		for _, c := range commits {
			section.Commits = append(section.Commits, rowView{
				ID:      c.ID,
				Href:    CommitURL(repo, c),
				Date:    c.Date,
				Author:  c.Author,
				Message: c.Message,
			})
		}
		sections = append(sections, section)
	}

	var tables strings.Builder
	if err := tablesTmpl.Execute(&tables, sections); err != nil {
		// The template is static and the views are plain strings; an
		// execution error here is a programming bug.
		panic(err)
	}

	if templatePath != "" {
		if text, err := os.ReadFile(templatePath); err == nil {
			return strings.ReplaceAll(string(text), templatePlaceholder, tables.String())
		}
	}

	return fmt.Sprintf("<html><body><h1>Git Commit Report</h1>%s</body></html>", tables.String())
}
