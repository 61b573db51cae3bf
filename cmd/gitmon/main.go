package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/margo/gitmon/internal/config"
	"github.com/margo/gitmon/internal/mirror"
	"github.com/margo/gitmon/internal/monitor"
	"github.com/margo/gitmon/internal/notify"
	"github.com/margo/gitmon/internal/state"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:           "gitmon",
		Short:         "Watch remote git repositories and report new commits",
		Long:          "gitmon keeps local mirrors of the configured repositories, detects commits that appeared since the last run and sends an HTML report by email or writes it to disk.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, verbose, configPath, outputPath)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVar(&configPath, "config", "", "path to the config file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to this file instead of sending email")

	return cmd
}

func run(cmd *cobra.Command, verbose bool, configPath, outputPath string) error {
	logCfg := zap.NewDevelopmentConfig()
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	cacheRoot, err := cfg.ResolveCacheRoot()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cacheRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", cacheRoot, err)
	}

	var auth *mirror.Auth
	if username, token, ok := cfg.GitAuth(); ok {
		auth = &mirror.Auth{Username: username, Token: token}
	}

	var sink notify.Sink
	if outputPath != "" {
		sink = notify.FileSink{Path: outputPath}
	} else {
		sink = notify.EmailSink{
			Host:    cfg.SMTPHost,
			Port:    cfg.SMTPPort,
			From:    cfg.From,
			To:      cfg.To,
			Token:   cfg.Token,
			Subject: cfg.Subject,
		}
	}

	mon := monitor.New(monitor.Options{
		Repos:        cfg.Repos,
		MaxCommits:   cfg.MaxCommits,
		TemplatePath: cfg.TemplatePath,
		Mirrors:      mirror.NewManager(cacheRoot, cfg.Branch, auth, log),
		StatePath:    state.DefaultPath(cacheRoot),
		Sink:         sink,
		Log:          log,
	})

	return mon.Run(cmd.Context())
}
