package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const zipcodesURI = "taxes://zipcodes"

// registerResources registers the read-only resources on the given server.
func registerResources(s *server.MCPServer, zipcodes []string) {
	s.AddResource(
		mcplib.NewResource(
			zipcodesURI,
			"Zipcodes",
			mcplib.WithResourceDescription("Zipcodes accepted by the tax tools"),
			mcplib.WithMIMEType("application/json"),
		),
		handleZipcodesResource(zipcodes),
	)
}

func handleZipcodesResource(zipcodes []string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(zipcodes, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling zipcodes: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      zipcodesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
