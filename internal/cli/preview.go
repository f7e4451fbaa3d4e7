package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/zgent/internal/materializer"
	"github.com/agentx-labs/zgent/internal/resolver"
)

var (
	previewJSON    bool
	previewContent bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <zgent-id>",
	Short: "Show what materializing a zgent would write",
	Long: `Generate every output file of a zgent without touching its target
directory. Lists the files, the paths skipped by exclude rules, and markdown
or path problems found in the generated output.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Output in JSON format")
	previewCmd.Flags().BoolVar(&previewContent, "content", false, "Print file contents")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	ds, _, err := loadDataset()
	if err != nil {
		return err
	}
	z, ok := ds.FindZgent(args[0])
	if !ok {
		return &resolver.EntityNotFoundError{Kind: "zgent", ID: args[0]}
	}
	rp, err := resolver.ResolvePlugin(z.PluginID, ds)
	if err != nil {
		return err
	}
	for _, issue := range resolver.ValidateResolvedPlugin(rp) {
		logger.Warn().Str("plugin", rp.Plugin.ID).Msg(issue)
	}

	p, err := materializer.PreviewMaterialization(rp, z.ConfigOverrides)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if previewJSON {
		if !previewContent {
			for i := range p.Files {
				p.Files[i].Content = ""
			}
		}
		return printJSON(out, p)
	}

	fmt.Fprintf(out, "Zgent %s → %s\n\n", z.ID, z.TargetPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tBYTES")
	for _, f := range p.Files {
		fmt.Fprintf(w, "%s\t%d\n", f.Path, len(f.Content))
	}
	w.Flush()

	if previewContent {
		for _, f := range p.Files {
			fmt.Fprintf(out, "\n==> %s <==\n%s", f.Path, f.Content)
		}
	}
	if len(p.Excluded) > 0 {
		fmt.Fprintln(out, "\nExcluded:")
		for _, path := range p.Excluded {
			fmt.Fprintf(out, "  - %s\n", path)
		}
	}
	if len(p.Issues) > 0 {
		fmt.Fprintln(out, "\nIssues:")
		for _, issue := range p.Issues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
	}
	return nil
}
