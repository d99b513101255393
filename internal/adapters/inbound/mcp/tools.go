package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/taxes/internal/application"
	"github.com/abdidvp/taxes/internal/domain"
)

// registerTools registers all tax MCP tools on the given server.
func registerTools(s *server.MCPServer, svc *application.OrderService, zipcodes []string) {
	// 1. taxes_get_rate
	s.AddTool(
		mcplib.NewTool("taxes_get_rate",
			mcplib.WithDescription("Returns the sales tax rate (percent) for a zipcode"),
			mcplib.WithString("zipcode",
				mcplib.Required(),
				mcplib.Description("Zipcode to look up; must be on the allow-list"),
			),
		),
		handleGetRate(svc, zipcodes),
	)

	// 2. taxes_quote
	s.AddTool(
		mcplib.NewTool("taxes_quote",
			mcplib.WithDescription("Computes tax and total for a subtotal without submitting an order"),
			mcplib.WithString("zipcode", mcplib.Required(), mcplib.Description("Zipcode for the tax calculation")),
			mcplib.WithString("subtotal", mcplib.Required(), mcplib.Description("Pre-tax amount, digits with optional commas and period")),
		),
		handleQuote(svc, zipcodes),
	)

	// 3. taxes_submit_order
	s.AddTool(
		mcplib.NewTool("taxes_submit_order",
			mcplib.WithDescription("Computes tax and total, then submits the order. Returns the form and the API's reply."),
			mcplib.WithString("zipcode", mcplib.Required(), mcplib.Description("Zipcode for the tax calculation")),
			mcplib.WithString("subtotal", mcplib.Required(), mcplib.Description("Pre-tax amount, digits with optional commas and period")),
		),
		handleSubmitOrder(svc, zipcodes),
	)
}

type rateResult struct {
	Zipcode string `json:"zipcode"`
	TaxRate string `json:"tax_rate"`
}

type checkoutResult struct {
	Form   domain.OrderForm    `json:"form"`
	Result *domain.OrderResult `json:"result"`
}

func handleGetRate(svc *application.OrderService, zipcodes []string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		zipcode, _ := request.GetArguments()["zipcode"].(string)
		if _, err := domain.ValidateZip(zipcode, zipcodes); err != nil {
			return errorResult(err.Error()), nil
		}

		rate, err := svc.TaxRate(ctx, zipcode)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(rateResult{Zipcode: zipcode, TaxRate: rate.String()})
	}
}

func handleQuote(svc *application.OrderService, zipcodes []string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		req, err := orderRequest(request, zipcodes)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		form, err := svc.Quote(ctx, req)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(form)
	}
}

func handleSubmitOrder(svc *application.OrderService, zipcodes []string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		req, err := orderRequest(request, zipcodes)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		form, result, err := svc.Checkout(ctx, req, nil)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(checkoutResult{Form: form, Result: result})
	}
}

func orderRequest(request mcplib.CallToolRequest, zipcodes []string) (domain.OrderRequest, error) {
	args := request.GetArguments()
	zipcode, _ := args["zipcode"].(string)
	subtotal, _ := args["subtotal"].(string)
	return domain.NewOrderRequest(zipcode, subtotal, zipcodes)
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool-level error the client can show to the model.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
