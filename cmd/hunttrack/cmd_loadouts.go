package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hunttrack/pkg/config"
	"hunttrack/pkg/session"
	"hunttrack/pkg/store"
	"hunttrack/pkg/tracker"
)

// formatLoadoutsTable formats loadouts with their per-shot cost.
func formatLoadoutsTable(los []session.Loadout) string {
	if len(los) == 0 {
		return "No loadouts found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %-24s %-10s %-6s %s\n", "NAME", "WEAPON", "DECAY", "BURN", "COST/SHOT")
	for _, l := range los {
		fmt.Fprintf(&b, "%-24s %-24s %-10s %-6d %s\n",
			l.Name, l.Weapon, l.Decay.String(), l.Burn, tracker.CostPerShot(l.CostParams()).StringFixed(6))
	}
	return b.String()
}

func formatLoadoutDetail(l session.Loadout) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:      %s\n", l.Name)
	fmt.Fprintf(&b, "Weapon:    %s\n", l.Weapon)
	fmt.Fprintf(&b, "Amp:       %s\n", l.Amp)
	fmt.Fprintf(&b, "Scope:     %s\n", l.Scope)
	fmt.Fprintf(&b, "Sight 1:   %s\n", l.SightOne)
	fmt.Fprintf(&b, "Sight 2:   %s\n", l.SightTwo)
	fmt.Fprintf(&b, "Decay:     %s\n", l.Decay.String())
	fmt.Fprintf(&b, "Burn:      %d\n", l.Burn)
	fmt.Fprintf(&b, "Cost/shot: %s PED\n", tracker.CostPerShot(l.CostParams()).StringFixed(6))
	return b.String()
}

// loadoutFlags binds the editable loadout fields to a flag set.
type loadoutFlags struct {
	weapon, amp, scope, sightOne, sightTwo string
	decay                                  string
	burn                                   int
}

func (f *loadoutFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.weapon, "weapon", "", "weapon name")
	fs.StringVar(&f.amp, "amp", "", "amplifier name")
	fs.StringVar(&f.scope, "scope", "", "scope name")
	fs.StringVar(&f.sightOne, "sight-one", "", "first sight name")
	fs.StringVar(&f.sightTwo, "sight-two", "", "second sight name")
	fs.StringVar(&f.decay, "decay", "0", "decay per shot in PEC")
	fs.IntVar(&f.burn, "burn", 0, "ammo burn per shot")
}

// apply copies the flags that were set on fs onto l.
func (f *loadoutFlags) apply(fs *pflag.FlagSet, l *session.Loadout) error {
	if fs.Changed("weapon") {
		l.Weapon = f.weapon
	}
	if fs.Changed("amp") {
		l.Amp = f.amp
	}
	if fs.Changed("scope") {
		l.Scope = f.scope
	}
	if fs.Changed("sight-one") {
		l.SightOne = f.sightOne
	}
	if fs.Changed("sight-two") {
		l.SightTwo = f.sightTwo
	}
	if fs.Changed("decay") {
		d, err := decimal.NewFromString(f.decay)
		if err != nil {
			return fmt.Errorf("--decay %q: %w", f.decay, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("--decay must not be negative")
		}
		l.Decay = d
	}
	if fs.Changed("burn") {
		if f.burn < 0 {
			return fmt.Errorf("--burn must not be negative")
		}
		l.Burn = f.burn
	}
	return nil
}

func newLoadoutsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "loadouts",
		Aliases: []string{"loadout"},
		Short:   "List and edit loadouts",
	}
	cmd.AddCommand(
		newLoadoutsListCmd(env),
		newLoadoutsNewCmd(env),
		newLoadoutsSetCmd(env),
		newLoadoutsShowCmd(env),
	)
	return cmd
}

func newLoadoutsListCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loadouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				los, err := st.ListLoadouts(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatLoadoutsTable(los))
				return nil
			})
		},
	}
}

func newLoadoutsNewCmd(env *cliEnv) *cobra.Command {
	var flags loadoutFlags
	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a loadout",
		Long:  "Create a loadout. Without a name one is generated from the current time.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				now := time.Now()
				name := session.GenerateLoadoutName(now)
				if len(args) == 1 {
					name = args[0]
				}
				if _, err := st.LoadLoadout(ctx, name); err == nil {
					return fmt.Errorf("loadout %q already exists", name)
				} else if !errors.Is(err, store.ErrNotFound) {
					return err
				}

				lo := session.NewLoadout(name, now)
				if err := flags.apply(cmd.Flags(), &lo); err != nil {
					return err
				}
				if err := st.SaveLoadout(ctx, lo); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created loadout %s\n", lo.Name)
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newLoadoutsSetCmd(env *cliEnv) *cobra.Command {
	var flags loadoutFlags
	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Update fields of a loadout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				lo, err := st.LoadLoadout(ctx, args[0])
				if err != nil {
					return err
				}
				if err := flags.apply(cmd.Flags(), &lo); err != nil {
					return err
				}
				if err := st.SaveLoadout(ctx, lo); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatLoadoutDetail(lo))
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newLoadoutsShowCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a loadout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				lo, err := st.LoadLoadout(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatLoadoutDetail(lo))
				return nil
			})
		},
	}
}
