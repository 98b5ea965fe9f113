package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hunttrack/pkg/config"
	"hunttrack/pkg/session"
	"hunttrack/pkg/store"
	"hunttrack/pkg/tracker"
)

// formatSessionsTable formats session rows as a table, newest first.
func formatSessionsTable(infos []store.SessionInfo) string {
	if len(infos) == 0 {
		return "No sessions found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-32s %-20s %-18s %s\n", "NAME", "ELAPSED", "LOADOUT", "UPDATED")
	for _, s := range infos {
		fmt.Fprintf(&b, "%-32s %-20s %-18s %s\n",
			s.Name, session.FormatElapsed(s.Elapsed), s.Loadout, s.UpdatedAt.Local().Format(time.DateTime))
	}
	return b.String()
}

// formatSessionDetail renders one session with its derived figures.
func formatSessionDetail(s *session.Session, sum tracker.Summary) string {
	st := s.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "Session:   %s\n", s.Name)
	fmt.Fprintf(&b, "Loadout:   %s\n", s.Loadout.Name)
	fmt.Fprintf(&b, "Elapsed:   %s\n", session.FormatElapsed(sum.Elapsed))
	fmt.Fprintf(&b, "Cost:      %s PED\n", sum.TotalCost.StringFixed(4))
	fmt.Fprintf(&b, "TT loot:   %s PED (return %s%%)\n", st.TTProfit.StringFixed(4), sum.TTReturn.StringFixed(2))
	fmt.Fprintf(&b, "MU loot:   %s PED (return %s%%)\n", sum.MUValue.StringFixed(4), sum.MUReturn.StringFixed(2))
	fmt.Fprintf(&b, "Globals:   %d (%s PED)  HOFs: %d (%s PED)\n",
		st.GlobalCount, st.TotalGlobalGain.StringFixed(2), st.HOFCount, st.TotalHOFGain.StringFixed(2))
	fmt.Fprintf(&b, "Attacks:   %d  crit %s%%  miss %s%%\n",
		st.AttackCount, sum.CritRate.StringFixed(2), sum.MissRate.StringFixed(2))
	fmt.Fprintf(&b, "Damage:    %s dealt, %s taken, %s healed\n",
		st.TotalDamage.StringFixed(2), st.TargetTotalDamage.StringFixed(2), st.TotalHeal.StringFixed(2))
	fmt.Fprintf(&b, "Deaths:    %d\n", st.DeathCount)

	if loot := s.LootByValue(); len(loot) > 0 {
		b.WriteString("\nLoot:\n")
		for _, l := range loot {
			fmt.Fprintf(&b, "  %-30s x%-6d %s PED\n", l.Name, l.Count, l.TTValue.StringFixed(4))
		}
	}
	if skills := s.SkillsByExp(); len(skills) > 0 {
		b.WriteString("\nSkills:\n")
		for _, sk := range skills {
			fmt.Fprintf(&b, "  %-30s %s\n", sk.Name, sk.ExpGain.StringFixed(4))
		}
	}
	return b.String()
}

func newSessionsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "List and manage tracked sessions",
	}
	cmd.AddCommand(
		newSessionsListCmd(env),
		newSessionsNewCmd(env),
		newSessionsShowCmd(env),
		newSessionsDeleteCmd(env),
	)
	return cmd
}

func newSessionsListCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				infos, err := st.ListSessions(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatSessionsTable(infos))
				return nil
			})
		},
	}
}

func newSessionsNewCmd(env *cliEnv) *cobra.Command {
	var loadout string
	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new stopped session",
		Long:  "Create a new session. Without a name one is generated from the current time.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				name := session.GenerateName(time.Now())
				if len(args) == 1 {
					name = args[0]
				}
				lo, err := st.EnsureLoadout(ctx, loadout)
				if err != nil {
					return err
				}
				sess, err := st.CreateSession(ctx, name, lo)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created session %s (loadout %s)\n", sess.Name, lo.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&loadout, "loadout", session.DefaultLoadoutName, "loadout to equip")
	return cmd
}

func newSessionsShowCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a session's statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, cfg config.Config, st *store.Store) error {
				sess, err := st.LoadSession(ctx, args[0])
				if err != nil {
					return err
				}
				markups, err := st.LoadMarkups(ctx)
				if err != nil {
					return err
				}
				tr := tracker.New(cfg.Player, sess, markups)
				fmt.Fprint(cmd.OutOrStdout(), formatSessionDetail(sess, tr.Summarize()))
				return nil
			})
		},
	}
}

func newSessionsDeleteCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a session and its tallies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				if err := st.DeleteSession(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted session %s\n", args[0])
				return nil
			})
		},
	}
}
