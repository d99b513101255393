package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/taxes/internal/application"
)

// NewTaxesMCPServer creates an MCP server exposing tax lookups, quotes and
// order submission as tools. zipcodes is the allow-list tool input is
// validated against.
func NewTaxesMCPServer(svc *application.OrderService, zipcodes []string, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"taxes",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc, zipcodes)
	registerResources(s, zipcodes)

	return s
}
