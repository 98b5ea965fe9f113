package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hunttrack/pkg/config"
)

func newConfigCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the hunttrack config file",
	}
	cmd.AddCommand(newConfigInitCmd(env), newConfigShowCmd(env))
	return cmd
}

func newConfigInitCmd(env *cliEnv) *cobra.Command {
	var (
		player  string
		logPath string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := env.paths()
			if err != nil {
				return err
			}

			cfg, err := config.Load(p.ConfigPath)
			switch {
			case err == nil && !force:
				return fmt.Errorf("config %s already exists (use --force to overwrite)", p.ConfigPath)
			case err != nil && !errors.Is(err, os.ErrNotExist) && !force:
				return err
			case err != nil:
				cfg = config.DefaultConfig()
			}

			if player != "" {
				cfg.Player = player
			}
			if logPath != "" {
				cfg.LogPath = logPath
			}
			if err := config.Save(p.ConfigPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p.ConfigPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "avatar name used to attribute globals")
	cmd.Flags().StringVar(&logPath, "log-path", "", "path to the game's chat.log")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")
	return cmd
}

func newConfigShowCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, cfg, err := env.load()
			if err != nil {
				return err
			}
			blob, err := config.Encode(p.ConfigPath, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", p.ConfigPath, blob)
			return nil
		},
	}
}
