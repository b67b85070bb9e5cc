package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"reviewlens/internal/config"
	"reviewlens/internal/logging"
)

// Version information (set at build time)
var (
	appVersion    = "dev"
	appCommitHash = "unknown"
	appBuildDate  = "unknown"
)

// Flags shared across subcommands
var (
	flagConfig   string
	flagLogLevel string
	flagOwner    string
	flagRepo     string
)

// SetVersionInfo sets the version information from build-time variables
func SetVersionInfo(version, commitHash, buildDate string) {
	appVersion = version
	appCommitHash = commitHash
	appBuildDate = buildDate
}

// NewRootCmd creates a new instance of the root command for testing.
// This prevents shared state issues in concurrent tests.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviewlens",
		Short: "Review-bot comment analysis for pull requests",
		Long: `reviewlens fetches the review comments an automated code-review bot
posted on a pull request, reconstructs conversation threads, classifies
findings, and renders the result as a report or an AI-agent prompt.

Examples:
  reviewlens fetch 123                  # Fetch PR #123's comments as JSON
  reviewlens analyze 123                # Fetch and analyze PR #123
  reviewlens analyze --input data.json  # Analyze a previously fetched record set
  reviewlens prompt 123                 # Emit an AI-agent prompt for PR #123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default .reviewlens/config.json)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flagOwner, "owner", "", "repository owner (default: from git remote)")
	cmd.PersistentFlags().StringVar(&flagRepo, "repo", "", "repository name (default: from git remote)")

	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newPromptCmd())
	cmd.AddCommand(versionCmd)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

// newLogger builds the logger honoring --log-level and verbose config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := flagLogLevel
	if level == "" && cfg.AnalysisSettings.VerboseMode {
		level = "debug"
	}
	return logging.NewLogger(os.Stderr, logging.ParseLevel(level))
}
