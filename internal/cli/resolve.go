package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/zgent/internal/resolver"
)

var resolveJSON bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <plugin-id>",
	Short: "Resolve a plugin and check its references",
	Long: `Collect every entity belonging to a plugin, print per-type counts, and
report references to skills, rules or agents the plugin does not contain.
Exits non-zero when any reference is broken.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(resolveCmd)
}

// resolveOutput is the JSON shape of the resolve command.
type resolveOutput struct {
	Plugin string               `json:"plugin"`
	Stats  resolver.PluginStats `json:"stats"`
	Issues []string             `json:"issues"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	ds, _, err := loadDataset()
	if err != nil {
		return err
	}

	rp, err := resolver.ResolvePlugin(args[0], ds)
	if err != nil {
		return err
	}
	issues := resolver.ValidateResolvedPlugin(rp)
	stats := resolver.GetPluginStats(rp)

	out := cmd.OutOrStdout()
	if resolveJSON {
		if issues == nil {
			issues = []string{}
		}
		if err := printJSON(out, resolveOutput{Plugin: rp.Plugin.ID, Stats: stats, Issues: issues}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Plugin %s (%s)\n\n", rp.Plugin.ID, rp.Plugin.Name)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tCOUNT")
		for _, row := range []struct {
			name  string
			count int
		}{
			{"agents", stats.Agents},
			{"skills", stats.Skills},
			{"rules", stats.Rules},
			{"hooks", stats.Hooks},
			{"commands", stats.Commands},
			{"contexts", stats.Contexts},
			{"mcp servers", stats.McpServers},
		} {
			fmt.Fprintf(w, "%s\t%d\n", row.name, row.count)
		}
		fmt.Fprintf(w, "total\t%d\n", stats.Total)
		w.Flush()

		if len(issues) > 0 {
			fmt.Fprintln(out, "\nIssues:")
			for _, issue := range issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
		}
	}

	if len(issues) > 0 {
		return fmt.Errorf("plugin %s has %d unresolved reference(s)", rp.Plugin.ID, len(issues))
	}
	return nil
}
