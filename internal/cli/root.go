// Package cli implements the command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/notion-cli/internal/config"
	"github.com/aidanlsb/notion-cli/internal/logging"
	"github.com/aidanlsb/notion-cli/internal/notion"
	"github.com/aidanlsb/notion-cli/internal/ui"
)

var (
	// Global flags
	configPath  string
	verbosity   int
	helpVerbose bool

	// Resolved values
	cfg    = &config.Config{}
	logger = logging.Discard()
)

// newAPIClient builds the remote client for a command. Tests replace it.
var newAPIClient = func(c *config.Config, log logrus.FieldLogger) (notion.API, error) {
	client, err := notion.NewClient(c.Token,
		notion.WithBaseURL(c.APIBaseURL),
		notion.WithVersion(c.NotionVersion),
		notion.WithTimeout(c.Timeout),
		notion.WithLogger(log),
	)
	if err != nil {
		return nil, newError(ErrConfigInvalid, err, "Run 'notion-cli auth login' or set NOTION_TOKEN")
	}
	return client, nil
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "notion-cli",
	Short: "Work with Notion pages, databases and blocks from the terminal",
	Long: `notion-cli talks to the Notion API: search the workspace, query databases
with an interactive filter builder, create pages from markdown and append
blocks. Output is a table by default, or CSV, JSON, YAML, or the raw API
response with --raw.

Run 'notion-cli --help-verbose' for the full command reference.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return newError(ErrConfigInvalid, err, "Fix or remove "+config.DefaultPath())
		}
		cfg = loaded

		level, err := logging.LevelFor(verbosity, cfg.LogLevel)
		if err != nil {
			return newError(ErrConfigInvalid, err, "Use one of: panic, fatal, error, warn, info, debug, trace")
		}
		logger = logging.New(cmd.ErrOrStderr(), level)
		logger.WithField("config", cfg.Path).Debug("config loaded")

		if cfg.UI.Accent != "" {
			ui.ConfigureTheme(cfg.UI.Accent)
		}
		return nil
	},
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if hasHelpVerbose(args) {
		return exitCode(printVerboseHelp(stdout), stderr)
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return exitCode(rootCmd.ExecuteContext(ctx), stderr)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVar(&helpVerbose, "help-verbose", false, "Show the full command reference")
}

// apiClient returns the remote client for the current invocation.
func apiClient() (notion.API, error) {
	return newAPIClient(cfg, logger)
}
