package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd prints the llmscan version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the version of the llmscan binary.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "llmscan %s\n", Version)
	},
}
