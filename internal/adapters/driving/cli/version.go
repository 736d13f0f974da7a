package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the coding version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if versionShort {
			cmd.Println(version)
			return
		}
		cmd.Printf("coding version %s (%s/%s, %s)\n", version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	rootCmd.AddCommand(versionCmd)
}
