package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// dashBinary is the dashboard executable looked up on PATH.
const dashBinary = "hunttrack-dash"

// newDashCmd creates the "hunttrack dash" subcommand.
func newDashCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Launch the live dashboard",
		Long:  "Opens the hunttrack dashboard TUI, which follows the chat log and updates the current session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(cmd.OutOrStdout()) {
				return errors.New("dash needs an interactive terminal")
			}

			var args []string
			if *env.configFlag != "" {
				args = append(args, "--config", *env.configFlag)
			}
			dashCmd := exec.CommandContext(cmd.Context(), dashBinary, args...)
			dashCmd.Stdin = os.Stdin
			dashCmd.Stdout = os.Stdout
			dashCmd.Stderr = os.Stderr

			if err := dashCmd.Run(); err != nil {
				return fmt.Errorf("run %s: %w", dashBinary, err)
			}
			return nil
		},
	}
}
