package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "uire",
	Short: "Intent resolution engine for ambiguous queries",
	Long: `uire detects under-specified queries, asks at most two single-choice
clarifying questions, and resolves each query into a structured intent
and an executable prompt. Preferences are remembered per user with
consent and a bounded TTL. It integrates with AI agents over HTTP or
MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".uire.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
