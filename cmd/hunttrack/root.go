package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hunttrack/internal/version"
	"hunttrack/pkg/config"
	"hunttrack/pkg/store"
)

// newRootCmd creates the root hunttrack command with all subcommands attached.
func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "hunttrack",
		Short:         "Hunting session tracker for the game chat log",
		Long:          "hunttrack follows the game's chat log and keeps per-session combat, loot and skill statistics.\nRun 'hunttrack dash' for the live dashboard.",
		Version:       fmt.Sprintf("hunttrack %s", version.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HUNTTRACK_HOME/config.toml)")

	env := &cliEnv{configFlag: &configPath}
	cmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(env),
		newSessionsCmd(env),
		newLoadoutsCmd(env),
		newMarkupsCmd(env),
		newStatusCmd(env),
		newDashCmd(env),
	)
	return cmd
}

// cliEnv resolves paths and config lazily so that --help never touches disk.
type cliEnv struct {
	configFlag *string
}

func (e *cliEnv) paths() (*config.Paths, error) {
	p, err := config.ResolvePaths()
	if err != nil {
		return nil, err
	}
	if *e.configFlag != "" {
		p.ConfigPath = *e.configFlag
	}
	return p, nil
}

// load returns the resolved paths and config, writing a default config on
// first use.
func (e *cliEnv) load() (*config.Paths, config.Config, error) {
	p, err := e.paths()
	if err != nil {
		return nil, config.Config{}, err
	}
	cfg, err := config.Ensure(p.ConfigPath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return p, cfg.WithPaths(p), nil
}

// withStore opens the configured database for the duration of fn.
func (e *cliEnv) withStore(ctx context.Context, fn func(context.Context, config.Config, *store.Store) error) error {
	_, cfg, err := e.load()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, cfg, st)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hunttrack version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hunttrack %s\n", version.String())
		},
	}
}
