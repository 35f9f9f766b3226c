package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "memchat/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the chat engine and its session memory as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		eng, database, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		sessions, _ := eng.Store().List(context.Background())
		fmt.Fprintf(os.Stderr, "memchat MCP server started on stdio (db=%s, sessions=%d)\n",
			cfg.DatabasePath(), len(sessions))

		srv := mcpserver.NewServer(eng)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
