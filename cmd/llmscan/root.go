package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	llmscanlog "github.com/davetashner/llmscan/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for llmscan.
var rootCmd = &cobra.Command{
	Use:   "llmscan",
	Short: "Scan C/C++ sources for buffer overflows with an LLM",
	Long: `Llmscan drives an LLM provider (OpenAI or Anthropic) over a directory of
C/C++ sources, asking for a buffer-overflow verdict on each file. Results
are collected into a JSON report that the analyze subcommand can summarize
and export.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		llmscanlog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
