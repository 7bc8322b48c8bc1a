package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionVerbose bool

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of lifecycler",
		Long:  `All software has versions. This is lifecycler's.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lifecycler version %s\n", rootCmd.Version)
			if versionVerbose {
				fmt.Fprintf(cmd.OutOrStdout(), "go version %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
	c.Flags().BoolVar(&versionVerbose, "verbose", false, "Also print the Go toolchain and platform")
	return c
}
