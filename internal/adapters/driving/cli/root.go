// Package cli implements the coding command line.
package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/coding/coding-cli/internal/connectors/codingnet"
	"github.com/coding/coding-cli/internal/core/ports/driven"
	"github.com/coding/coding-cli/internal/core/ports/driving"
	"github.com/coding/coding-cli/internal/logger"
)

var version = "dev"

// Services wired in by main.
var (
	settingsService    driving.SettingsService
	credentialsService driving.CredentialsService
	prompter           driven.Prompter
	indicator          driven.ProgressIndicator

	// transport replaces the network transport of API connections in tests.
	transport http.RoundTripper
)

// Global flags.
var (
	verboseFlag bool
	hostFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "coding",
	Short: "Work with Coding.net from the command line",
	Long: `coding talks to the Coding.net API: log in, browse repositories,
open pull requests, manage issues, gists and access tokens.

Credentials are stored per host. When the server refuses them, coding asks
for new ones (or a two-factor code) and retries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print API calls and retries")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Coding.net host (overrides the configured one)")
}

// Dependencies are the services the commands run against.
type Dependencies struct {
	Settings    driving.SettingsService
	Credentials driving.CredentialsService
	Prompter    driven.Prompter
	Indicator   driven.ProgressIndicator
}

// Configure installs the services used by the commands.
func Configure(deps Dependencies) {
	settingsService = deps.Settings
	credentialsService = deps.Credentials
	prompter = deps.Prompter
	indicator = deps.Indicator
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		rootCmd.PrintErrln(styles.Error.Render("Error: " + codingnet.UserMessage(err)))
	}
	return err
}
