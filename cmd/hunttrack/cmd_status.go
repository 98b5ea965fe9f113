package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"hunttrack/pkg/config"
	"hunttrack/pkg/store"
	"hunttrack/pkg/tracker"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newStatusCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the most recent session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, cfg config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()

				sess, err := st.LatestSession(ctx)
				if errors.Is(err, store.ErrNotFound) {
					fmt.Fprintln(out, "No sessions yet. Run 'hunttrack dash' to start tracking.")
					return nil
				}
				if err != nil {
					return err
				}
				markups, err := st.LoadMarkups(ctx)
				if err != nil {
					return err
				}

				header := fmt.Sprintf("player: %s | log: %s | db: %s", orUnset(cfg.Player), orUnset(cfg.LogPath), cfg.DBPath)
				if isTerminal(out) {
					header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render(header)
				}
				fmt.Fprintln(out, header)
				fmt.Fprintln(out)

				tr := tracker.New(cfg.Player, sess, markups)
				fmt.Fprint(out, formatSessionDetail(sess, tr.Summarize()))
				return nil
			})
		},
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
