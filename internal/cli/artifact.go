package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/zgent/internal/artifact"
	"github.com/agentx-labs/zgent/internal/crud"
)

var (
	artifactFile           string
	artifactSets           []string
	artifactContentFile    string
	artifactOverwrite      bool
	artifactDryRun         bool
	artifactReplace        bool
	artifactSoft           bool
	artifactIncludeDeleted bool

	queryType           string
	queryName           string
	queryPattern        string
	queryCategory       string
	queryTags           []string
	queryModifiedAfter  string
	queryModifiedBefore string
	queryLimit          int
	queryOffset         int
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Create, read, update, delete and query artifacts in place",
	Long: `Edit materialized artifacts under the artifact root (--root or
artifact_root). Types: agent, skill, rule, hook, command, context, mcp-server.
Skill ids may carry a category prefix, e.g. core/lint.

Every command prints the operation result as JSON and exits non-zero when
the operation did not succeed.`,
}

var artifactCreateCmd = &cobra.Command{
	Use:   "create <type> <id>",
	Short: "Create an artifact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := buildState(artifactFile, artifactSets, artifactContentFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return executeRequest(cmd, crud.CreateRequest{
			Type:      artifact.Type(args[0]),
			ID:        args[1],
			State:     state,
			Overwrite: artifactOverwrite,
			DryRun:    artifactDryRun,
		})
	},
}

var artifactGetCmd = &cobra.Command{
	Use:   "get <type> <id>",
	Short: "Read an artifact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeRequest(cmd, crud.ReadRequest{
			Type:           artifact.Type(args[0]),
			ID:             args[1],
			IncludeDeleted: artifactIncludeDeleted,
		})
	},
}

var artifactUpdateCmd = &cobra.Command{
	Use:   "update <type> <id>",
	Short: "Update an artifact",
	Long: `Merge changes into an artifact. A --set with an empty value removes the
field. With --replace the changes become the whole artifact.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes, err := buildState(artifactFile, artifactSets, artifactContentFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return executeRequest(cmd, crud.UpdateRequest{
			Type:    artifact.Type(args[0]),
			ID:      args[1],
			Changes: changes,
			Replace: artifactReplace,
			DryRun:  artifactDryRun,
		})
	},
}

var artifactDeleteCmd = &cobra.Command{
	Use:   "delete <type> <id>",
	Short: "Delete an artifact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeRequest(cmd, crud.DeleteRequest{
			Type: artifact.Type(args[0]),
			ID:   args[1],
			Soft: artifactSoft,
		})
	},
}

var artifactQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List artifacts matching filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := crud.QueryRequest{
			Type:           artifact.Type(queryType),
			Name:           queryName,
			NamePattern:    queryPattern,
			Category:       queryCategory,
			Tags:           queryTags,
			Limit:          queryLimit,
			Offset:         queryOffset,
			IncludeDeleted: artifactIncludeDeleted,
		}
		var err error
		if req.ModifiedAfter, err = parseTime(queryModifiedAfter); err != nil {
			return err
		}
		if req.ModifiedBefore, err = parseTime(queryModifiedBefore); err != nil {
			return err
		}
		return executeRequest(cmd, req)
	},
}

func init() {
	for _, c := range []*cobra.Command{artifactCreateCmd, artifactUpdateCmd} {
		c.Flags().StringVarP(&artifactFile, "file", "f", "", "JSON or YAML object with the fields (- for stdin)")
		c.Flags().StringArrayVar(&artifactSets, "set", nil, "Field as KEY=VALUE; VALUE is parsed as YAML (repeatable)")
		c.Flags().StringVar(&artifactContentFile, "content-file", "", "File whose text becomes the content field")
		c.Flags().BoolVar(&artifactDryRun, "dry-run", false, "Validate and show the result without writing")
	}
	artifactCreateCmd.Flags().BoolVar(&artifactOverwrite, "overwrite", false, "Replace an existing artifact")
	artifactUpdateCmd.Flags().BoolVar(&artifactReplace, "replace", false, "Replace the artifact instead of merging")
	artifactDeleteCmd.Flags().BoolVar(&artifactSoft, "soft", false, "Mark the artifact deleted instead of removing it")
	for _, c := range []*cobra.Command{artifactGetCmd, artifactQueryCmd} {
		c.Flags().BoolVar(&artifactIncludeDeleted, "include-deleted", false, "Include soft-deleted artifacts")
	}

	q := artifactQueryCmd.Flags()
	q.StringVar(&queryType, "type", "", "Artifact type")
	q.StringVar(&queryName, "name", "", "Exact name")
	q.StringVar(&queryPattern, "pattern", "", "Name glob, e.g. 'lint*'")
	q.StringVar(&queryCategory, "category", "", "Category")
	q.StringArrayVar(&queryTags, "tag", nil, "Required tag (repeatable, all must match)")
	q.StringVar(&queryModifiedAfter, "modified-after", "", "RFC 3339 time")
	q.StringVar(&queryModifiedBefore, "modified-before", "", "RFC 3339 time")
	q.IntVar(&queryLimit, "limit", 0, "Maximum number of results (0 for all)")
	q.IntVar(&queryOffset, "offset", 0, "Number of results to skip")

	artifactCmd.AddCommand(artifactCreateCmd, artifactGetCmd, artifactUpdateCmd, artifactDeleteCmd, artifactQueryCmd)
	rootCmd.AddCommand(artifactCmd)
}

// executeRequest runs req, prints the result and turns an unsuccessful
// result into a command error.
func executeRequest(cmd *cobra.Command, req crud.Request) error {
	engine := newEngine()
	logger.Debug().Str("root", engine.Root()).Str("operation", string(req.Operation())).Msg("executing artifact request")
	res, err := engine.Execute(cmd.Context(), req)
	if err != nil {
		return err
	}
	if err := printJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if !res.Success {
		return res.Error
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t, nil
}
