package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/agentx-labs/zgent/internal/branding"
	"github.com/agentx-labs/zgent/internal/config"
	"github.com/agentx-labs/zgent/internal/logging"
	"github.com/agentx-labs/zgent/internal/traffic"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagTrace bool

	// logger carries diagnostics to stderr; command output goes to stdout.
	logger         = zerolog.Nop()
	tracerProvider *sdktrace.TracerProvider
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` resolves plugins from a JSON dataset, materializes them as
assistant configuration files, and edits those files in place with versioned
CRUD operations.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if tracerProvider == nil {
			return nil
		}
		err := tracerProvider.Shutdown(context.Background())
		tracerProvider = nil
		return err
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("data-dir", "", "Directory holding the dataset documents")
	pf.String("root", "", "Artifact root edited by the artifact commands")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-format", "", "Log format (console, json)")
	pf.BoolVar(&flagTrace, "trace", false, "Log a span for every artifact operation")

	for key, flag := range map[string]string{
		config.KeyDataDir:      "data-dir",
		config.KeyArtifactRoot: "root",
		config.KeyLogLevel:     "log-level",
		config.KeyLogFormat:    "log-format",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

// setup loads configuration and builds the diagnostics logger before any
// command runs.
func setup(cmd *cobra.Command, args []string) error {
	config.Load()
	settings := config.Current()

	l, err := logging.New(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	logger = l

	if flagTrace {
		tracerProvider = traffic.NewTracerProvider(logger)
		otel.SetTracerProvider(tracerProvider)
	}
	return nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
