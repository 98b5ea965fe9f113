// Package main implements the hunttrack-dash interactive dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"hunttrack/internal/version"
	"hunttrack/pkg/classify"
	"hunttrack/pkg/config"
	"hunttrack/pkg/logging"
	"hunttrack/pkg/pattern"
	"hunttrack/pkg/store"
	"hunttrack/pkg/tail"
	"hunttrack/pkg/tracker"
	"hunttrack/pkg/watch"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hunttrack-dash: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "hunttrack-dash",
		Short:         "Live hunting session dashboard",
		Version:       version.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default $HUNTTRACK_HOME/config.toml)")
	return cmd
}

// run wires config, logging, the store, the tailing pipeline and the
// watcher, then runs the UI until the user quits. The session is saved
// on exit.
func run(ctx context.Context, configPath string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}
	if configPath != "" {
		paths.ConfigPath = configPath
	}
	cfg, err := config.Ensure(paths.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.WithPaths(paths)
	if cfg.LogPath == "" {
		return fmt.Errorf("log_path is not set in %s (run 'hunttrack config init --log-path ...')", paths.ConfigPath)
	}

	logger, logFile, err := logging.Open(cfg.LogFile, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer logFile.Close()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	app, closeWatch, err := newApp(ctx, cfg, st, logger)
	if err != nil {
		return err
	}
	defer closeWatch()

	p := tea.NewProgram(newModel(app, cfg.Tick(), cfg.Autosave()), tea.WithAltScreen())
	_, runErr := p.Run()

	if err := app.Save(context.Background()); err != nil {
		logger.Error("final save failed", "err", err)
		runErr = errors.Join(runErr, err)
	}
	logger.Info("dashboard exited", "session", app.Session().Name)
	return runErr
}

// newApp resumes the latest session and builds the tailing pipeline. A
// watcher that cannot start is logged and replaced by the fallback poll.
func newApp(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) (*App, func(), error) {
	sess, err := st.Resume(ctx, time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("resume session: %w", err)
	}
	markups, err := st.LoadMarkups(ctx)
	if err != nil {
		return nil, nil, err
	}

	tr := tracker.New(cfg.Player, sess, markups)
	tr.Activity = tracker.NewActivityLog(cfg.ActivityCap)

	pump := &tracker.Pump{
		Path:         cfg.LogPath,
		Tailer:       tail.New(),
		Classifier:   classify.New(pattern.Default()),
		Tracker:      tr,
		FallbackPoll: cfg.Fallback(),
		Logger:       logger,
	}
	if err := pump.Prime(); err != nil {
		// The file may not exist yet; the first successful poll baselines it.
		logger.Warn("chat log not readable yet", "path", cfg.LogPath, "err", err)
	}

	app := &App{Store: st, Tracker: tr, Pump: pump, Logger: logger}

	closeWatch := func() {}
	w, err := watch.New(cfg.LogPath, logger)
	if err != nil {
		logger.Warn("file watcher unavailable, using fallback poll", "err", err, "interval", cfg.Fallback())
		if cfg.Fallback() <= 0 {
			pump.FallbackPoll = time.Second
		}
	} else {
		app.Notify = w.Notify()
		closeWatch = func() {
			if err := w.Close(); err != nil {
				logger.Warn("close watcher", "err", err)
			}
		}
	}

	logger.Info("dashboard started", "session", sess.Name, "log_path", cfg.LogPath, "player", cfg.Player)
	return app, closeWatch, nil
}
