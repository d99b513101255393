package cli

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/abdidvp/taxes/internal/adapters/inbound/mcp"
	"github.com/abdidvp/taxes/internal/adapters/outbound/config"
	"github.com/abdidvp/taxes/internal/adapters/outbound/logging"
	"github.com/abdidvp/taxes/internal/adapters/outbound/taxapi"
	"github.com/abdidvp/taxes/internal/application"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the taxes MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start taxes MCP server (stdio)",
		Long:  "Start the taxes MCP server using stdio transport. This lets AI assistants look up tax rates, quote totals and submit orders.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New().Load(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			// stdout carries the protocol; logs must stay on stderr.
			log := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
			defer func() { _ = log.Sync() }()

			client, err := taxapi.New(cfg, log)
			if err != nil {
				return err
			}
			svc := application.NewOrderService(client, client, log)

			s := mcpadapter.NewTaxesMCPServer(svc, cfg.Zipcodes, version)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", ".", "Directory holding .taxes.yaml and .env")

	return cmd
}
