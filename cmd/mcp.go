package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crukhq/supporter-engagement/internal/config"
	"github.com/crukhq/supporter-engagement/internal/db"
	mcpserver "github.com/crukhq/supporter-engagement/internal/mcp"
	"github.com/crukhq/supporter-engagement/internal/store"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the knowledge base and supporter data as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "supporter-engagement MCP server started on stdio (db=%s)\n", cfg.DatabasePath)

		srv := mcpserver.NewServer(store.New(database, newLogger()))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
