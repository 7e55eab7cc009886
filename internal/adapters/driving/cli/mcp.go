package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching session to an MCP client",
	Long: `Serve a matching session over the Model Context Protocol. A client
loads numbers, runs searches and finalizes groups through tools, and
reads the pool, groups and last results as resources.

Without --port the server talks JSON-RPC on stdin/stdout, which is what
desktop assistants expect:

  {"mcpServers": {"combimatch": {"command": "combimatch", "args": ["mcp", "serve"]}}}

With --port it serves streamable HTTP on that port and exposes
Prometheus metrics on /metrics:

  combimatch mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

// serveMCP blocks serving server on stdio (port 0) or HTTP. Tests swap it.
var serveMCP = func(cmd *cobra.Command, server *mcp.Server, port int) error {
	if port == 0 {
		return server.Run(cmd.Context())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost:%d\n", port)
	return server.RunHTTP(cmd.Context(), fmt.Sprintf(":%d", port))
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if mcpPort < 0 || mcpPort > 65535 {
		return fmt.Errorf("invalid port %d", mcpPort)
	}
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Session:  sessionService,
		Settings: settingsService,
		Report:   reportService,
		Metrics:  metricsHandler,
	})
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}
	return serveMCP(cmd, server, mcpPort)
}
