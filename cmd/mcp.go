package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohdibrahimai/uire/internal/mcpserver"
)

var mcpUser string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing intent resolution tools for AI agents like Claude Code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := buildStack(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		userHash := st.hasher.Hash(mcpUser)
		fmt.Fprintf(os.Stderr, "uire MCP server started on stdio (data=%s)\n", cfg.DataDir)

		srv := mcpserver.NewServer(st.engine, st.store, userHash)
		return srv.Serve()
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpUser, "user", "local", "local user identity for preference memory")
	rootCmd.AddCommand(mcpCmd)
}
