// Package monitor sequences one full run: refresh every configured mirror,
// collect the commits that appeared since the last watermark, render the
// report and deliver it.
package monitor

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/margo/gitmon/internal/history"
	"github.com/margo/gitmon/internal/notify"
	"github.com/margo/gitmon/internal/report"
	"github.com/margo/gitmon/internal/state"
)

// Mirrors provides a readable local history per remote URL. The monitor does
// not care how the mirror was produced, only that it can be walked.
type Mirrors interface {
	Ensure(ctx context.Context, remoteURL string) (string, error)
}

// Monitor drives a single run over the configured repositories. Failures
// are isolated per repository: one broken remote never aborts the run.
type Monitor struct {
	repos        []string
	maxCommits   int
	templatePath string
	mirrors      Mirrors
	statePath    string
	sink         notify.Sink
	log          *zap.SugaredLogger
}

// Options configures a Monitor.
type Options struct {
	Repos        []string
	MaxCommits   int
	TemplatePath string
	Mirrors      Mirrors
	StatePath    string
	Sink         notify.Sink
	Log          *zap.SugaredLogger
}

func New(opts Options) *Monitor {
	return &Monitor{
		repos:        opts.Repos,
		maxCommits:   opts.MaxCommits,
		templatePath: opts.TemplatePath,
		mirrors:      opts.Mirrors,
		statePath:    opts.StatePath,
		sink:         opts.Sink,
		log:          opts.Log,
	}
}

// Run processes every configured repository in order, then renders and
// delivers the report if anything new was found. Watermarks are persisted
// once, after all repositories were attempted, and only when the map
// changed. Per-repository errors are logged and skipped; only nothing-new
// runs end without touching persisted state.
func (m *Monitor) Run(ctx context.Context) error {
	log := m.log.With("run", uuid.NewString())

	watermarks := state.Load(m.statePath)
	aggregate := report.Aggregate{}

	for _, remoteURL := range m.repos {
		log.Debugw("checking remote repo", "repo", remoteURL)

		localPath, err := m.mirrors.Ensure(ctx, remoteURL)
		if err != nil {
			log.Errorw("failed to prepare repo", "repo", remoteURL, "error", err)
			continue
		}

		commits, err := history.NewSince(localPath, watermarks[remoteURL], m.maxCommits)
		if err != nil {
			log.Errorw("failed to read commits", "repo", remoteURL, "error", err)
			continue
		}
		if len(commits) == 0 {
			log.Infow("no new commits", "repo", remoteURL)
			continue
		}

		watermarks[remoteURL] = commits[0].ID
		aggregate[remoteURL] = commits
	}

	if len(aggregate) == 0 {
		log.Infow("no new commits found")
		return nil
	}

	html := report.Render(aggregate, m.repos, m.templatePath)

	// Watermarks are persisted before delivery is attempted. A failed send
	// therefore consumes the new commits for the next run. Long-standing
	// behavior, kept as is.
	if err := state.Save(watermarks, m.statePath); err != nil {
		log.Warnw("failed to save state", "path", m.statePath, "error", err)
	}

	if err := m.sink.Deliver(ctx, html); err != nil {
		log.Errorw("failed to deliver report", "error", err)
		return nil
	}

	log.Infow("report delivered", "repos", len(aggregate))
	return nil
}
