package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/stepwise/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Start the HTTP API",
	Long:        `Serves stored models over a JSON API (see /openapi.yaml) with Prometheus metrics at /metrics.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"log": "json"},
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		library, _ := cmd.Flags().GetString("library")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		if err := cli.Serve(sigCtx, env, addr, library); err != nil {
			return err
		}
		env.Logger.Info("HTTP server stopped", "signal", sigCtx.Signal())
		return nil
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes stored models as MCP tools: list_models, list_kinds,
get_step_states and apply_script.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP on --addr.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"log": "json"},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		library, _ := cmd.Flags().GetString("library")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		switch transport {
		case "stdio":
			return cli.ServeMCP(sigCtx, env, "", library)
		case "sse":
			return cli.ServeMCP(sigCtx, env, addr, library)
		}
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, mcpCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("library", "", "Loam library used to resolve script imports")
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().String("addr", "localhost:8081", "Address for the sse transport")
	mcpCmd.Flags().String("library", "", "Loam library used to resolve script imports")
}
