package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in the configuration file.

Keys are dotted, for example api.host or gist.private.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Change one or more settings",
	Long: `Change settings. Every valid pair is stored; invalid pairs are all reported.

Example:
  coding settings set api.host=e.coding.net api.timeout_ms=10000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSettingsSet,
}

var settingsJSON bool

func init() {
	settingsShowCmd.Flags().BoolVar(&settingsJSON, "json", false, "output as JSON")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	values, err := settingsService.Values()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settingsJSON {
		return printJSON(cmd, values)
	}

	cmd.Println(styles.Title.Render("Settings"))
	for _, k := range settingsService.Keys() {
		v := values[k]
		if v == "" {
			v = styles.Muted.Render("(not set)")
		}
		cmd.Println(field(k, v))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid setting %q, expected key=value", arg)
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := settingsService.SetMany(values); err != nil {
		return err
	}
	cmd.Println(styles.Success.Render(fmt.Sprintf("Updated %d setting(s)", len(values))))
	return nil
}
