package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/zgent/internal/dataset"
	"github.com/agentx-labs/zgent/internal/materializer"
	"github.com/agentx-labs/zgent/internal/resolver"
)

var (
	materializeForce bool
	materializeJSON  bool
)

var materializeCmd = &cobra.Command{
	Use:   "materialize <zgent-id>",
	Short: "Write a zgent's files to its target directory",
	Long: `Resolve the zgent's plugin, write every generated file under the target
directory and mark the zgent materialized in zgents.json.

Unresolved references abort the run unless --force is given. A run that
fails part way leaves the target incomplete and the zgent in its previous
status; run it again to finish.`,
	Args: cobra.ExactArgs(1),
	RunE: runMaterialize,
}

func init() {
	materializeCmd.Flags().BoolVar(&materializeForce, "force", false, "Materialize even when references are unresolved")
	materializeCmd.Flags().BoolVar(&materializeJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(materializeCmd)
}

func runMaterialize(cmd *cobra.Command, args []string) error {
	ds, dataDir, err := loadDataset()
	if err != nil {
		return err
	}
	repo := dataset.NewZgentRepository(dataDir)

	z, err := repo.Get(args[0])
	if err != nil {
		return err
	}
	rp, err := resolver.ResolvePlugin(z.PluginID, ds)
	if err != nil {
		return err
	}
	if issues := resolver.ValidateResolvedPlugin(rp); len(issues) > 0 {
		for _, issue := range issues {
			logger.Warn().Str("plugin", rp.Plugin.ID).Msg(issue)
		}
		if !materializeForce {
			return fmt.Errorf("plugin %s has %d unresolved reference(s); use --force to materialize anyway", rp.Plugin.ID, len(issues))
		}
	}

	w := materializer.NewWriter(repo, materializer.WithLogger(logger))
	res, err := w.MaterializeZgent(cmd.Context(), z, rp)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if materializeJSON {
		return printJSON(out, res)
	}
	fmt.Fprintf(out, "Materialized %d file(s) into %s\n", len(res.Files), res.TargetPath)
	for _, f := range res.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return nil
}
