package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"hunttrack/pkg/config"
	"hunttrack/pkg/session"
	"hunttrack/pkg/store"
)

// markupDoc is the YAML exchange format for markups.
type markupDoc struct {
	Markups map[string]string `yaml:"markups"`
}

func formatMarkupsTable(m session.Markups) string {
	if len(m) == 0 {
		return "No markups found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-36s %s\n", "ITEM", "MARKUP")
	for _, mu := range m.Sorted() {
		fmt.Fprintf(&b, "%-36s %s\n", mu.Name, mu.Value.StringFixed(2))
	}
	return b.String()
}

func parseMarkup(item, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("markup for %s: %w", item, err)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("markup for %s must be positive, got %s", item, raw)
	}
	return v, nil
}

// encodeMarkups renders m in the YAML exchange format.
func encodeMarkups(m session.Markups) ([]byte, error) {
	doc := markupDoc{Markups: make(map[string]string, len(m))}
	for name, mu := range m {
		doc.Markups[name] = mu.Value.String()
	}
	return yaml.Marshal(doc)
}

// decodeMarkups parses the YAML exchange format.
func decodeMarkups(data []byte) (map[string]decimal.Decimal, error) {
	var doc markupDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse markups: %w", err)
	}
	out := make(map[string]decimal.Decimal, len(doc.Markups))
	for name, raw := range doc.Markups {
		v, err := parseMarkup(name, raw)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func newMarkupsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "markups",
		Aliases: []string{"markup"},
		Short:   "List and edit item markups",
	}
	cmd.AddCommand(
		newMarkupsListCmd(env),
		newMarkupsSetCmd(env),
		newMarkupsExportCmd(env),
		newMarkupsImportCmd(env),
	)
	return cmd
}

func newMarkupsListCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List markups by item name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				m, err := st.LoadMarkups(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatMarkupsTable(m))
				return nil
			})
		},
	}
}

func newMarkupsSetCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "set <item> <value>",
		Short: "Set the markup multiplier for an item (1.0 = trade value)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseMarkup(args[0], args[1])
			if err != nil {
				return err
			}
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				m, err := st.LoadMarkups(ctx)
				if err != nil {
					return err
				}
				m.Set(args[0], v)
				if err := st.SaveMarkups(ctx, m); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], v.String())
				return nil
			})
		},
	}
}

func newMarkupsExportCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write markups as YAML to file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				m, err := st.LoadMarkups(ctx)
				if err != nil {
					return err
				}
				blob, err := encodeMarkups(m)
				if err != nil {
					return err
				}
				if len(args) == 0 || args[0] == "-" {
					_, err = cmd.OutOrStdout().Write(blob)
					return err
				}
				return os.WriteFile(args[0], blob, 0o600)
			})
		},
	}
}

func newMarkupsImportCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge markups from a YAML file ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0]) //nolint:gosec // user-supplied path
			}
			if err != nil {
				return fmt.Errorf("read markups: %w", err)
			}
			incoming, err := decodeMarkups(data)
			if err != nil {
				return err
			}

			return env.withStore(cmd.Context(), func(ctx context.Context, _ config.Config, st *store.Store) error {
				m, err := st.LoadMarkups(ctx)
				if err != nil {
					return err
				}
				for name, v := range incoming {
					m.Set(name, v)
				}
				if err := st.SaveMarkups(ctx, m); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d markups\n", len(incoming))
				return nil
			})
		},
	}
}
