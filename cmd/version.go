package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "reviewlens version %s\n", appVersion)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", appCommitHash)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", appBuildDate)
		fmt.Fprintf(cmd.OutOrStdout(), "  go:     %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
