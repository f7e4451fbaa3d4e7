package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/zgent/internal/dataset"
	"github.com/agentx-labs/zgent/internal/model"
	"github.com/agentx-labs/zgent/internal/resolver"
)

var (
	zgentListJSON bool

	zgentNewPlugin  string
	zgentNewName    string
	zgentNewTarget  string
	zgentNewVars    []string
	zgentNewExclude []string
)

var zgentCmd = &cobra.Command{
	Use:   "zgent",
	Short: "Manage zgents, the deployments of a plugin into a directory",
}

var zgentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List zgents and their status",
	Args:  cobra.NoArgs,
	RunE:  runZgentList,
}

var zgentNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Register a draft zgent for a plugin",
	Args:  cobra.NoArgs,
	RunE:  runZgentNew,
}

func init() {
	zgentListCmd.Flags().BoolVar(&zgentListJSON, "json", false, "Output in JSON format")

	f := zgentNewCmd.Flags()
	f.StringVar(&zgentNewPlugin, "plugin", "", "Plugin id to deploy (required)")
	f.StringVar(&zgentNewName, "name", "", "Display name")
	f.StringVar(&zgentNewTarget, "target", "", "Target directory (required)")
	f.StringArrayVar(&zgentNewVars, "var", nil, "Template variable as KEY=VALUE (repeatable)")
	f.StringArrayVar(&zgentNewExclude, "exclude", nil, "Output path, directory or glob to skip (repeatable)")
	_ = zgentNewCmd.MarkFlagRequired("plugin")
	_ = zgentNewCmd.MarkFlagRequired("target")

	zgentCmd.AddCommand(zgentListCmd)
	zgentCmd.AddCommand(zgentNewCmd)
	rootCmd.AddCommand(zgentCmd)
}

func runZgentList(cmd *cobra.Command, args []string) error {
	ds, _, err := loadDataset()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if zgentListJSON {
		zgents := ds.Zgents
		if zgents == nil {
			zgents = []model.Zgent{}
		}
		return printJSON(out, zgents)
	}

	if len(ds.Zgents) == 0 {
		fmt.Fprintln(out, "No zgents defined yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLUGIN\tSTATUS\tTARGET")
	for _, z := range ds.Zgents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", z.ID, z.PluginID, z.Status, z.TargetPath)
	}
	return w.Flush()
}

func runZgentNew(cmd *cobra.Command, args []string) error {
	ds, dataDir, err := loadDataset()
	if err != nil {
		return err
	}
	if _, ok := ds.FindPlugin(zgentNewPlugin); !ok {
		return &resolver.EntityNotFoundError{Kind: "plugin", ID: zgentNewPlugin}
	}

	vars, err := parseAssignments(zgentNewVars)
	if err != nil {
		return err
	}
	overrides := model.ConfigOverrides{Exclude: zgentNewExclude}
	if len(vars) > 0 {
		overrides.Variables = vars
	}

	z, err := dataset.NewZgentRepository(dataDir).Create(dataset.NewZgent{
		PluginID:   zgentNewPlugin,
		Name:       zgentNewName,
		TargetPath: zgentNewTarget,
		Overrides:  overrides,
	})
	if err != nil {
		return fmt.Errorf("creating zgent: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created zgent %s (plugin %s, target %s)\n", z.ID, z.PluginID, z.TargetPath)
	return nil
}
