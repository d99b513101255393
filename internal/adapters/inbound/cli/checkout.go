package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/taxes/internal/adapters/outbound/config"
	"github.com/abdidvp/taxes/internal/adapters/outbound/logging"
	"github.com/abdidvp/taxes/internal/adapters/outbound/taxapi"
	"github.com/abdidvp/taxes/internal/adapters/outbound/tui"
	"github.com/abdidvp/taxes/internal/application"
	"github.com/abdidvp/taxes/internal/domain"
)

type checkoutOptions struct {
	zipcode    countedString
	subtotal   countedString
	configDir  string
	dryRun     bool
	jsonOutput bool
	verbose    bool
}

// countedString is a string flag that remembers how often it was set.
type countedString struct {
	value string
	count int
}

func (s *countedString) String() string { return s.value }

func (s *countedString) Set(v string) error {
	s.value = v
	s.count++
	return nil
}

func (s *countedString) Type() string { return "string" }

type checkoutOutput struct {
	Form   domain.OrderForm    `json:"form"`
	Result *domain.OrderResult `json:"result,omitempty"`
}

// runCheckout validates input, fetches the rate, prints the total and then
// submits the order. Input is validated before any client is built, so bad
// input never reaches the network.
func runCheckout(cmd *cobra.Command, opts *checkoutOptions) error {
	// 1. Required options
	var problems []string
	if !cmd.Flags().Changed("zipcode") {
		problems = append(problems, "option --zipcode missing")
	}
	if !cmd.Flags().Changed("subtotal") {
		problems = append(problems, "option --subtotal missing")
	}
	if len(problems) > 0 {
		return &domain.UsageError{Problems: problems}
	}
	if opts.zipcode.count > 1 || opts.subtotal.count > 1 {
		return &domain.UsageError{Problems: []string{"Too many options provided"}}
	}

	// 2. Load config
	cfg, err := config.New().Load(opts.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// 3. Validate zipcode, then subtotal
	req, err := domain.NewOrderRequest(opts.zipcode.value, opts.subtotal.value, cfg.Zipcodes)
	if err != nil {
		return err
	}

	// 4. Wire adapters
	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log := logging.New(level, cmd.ErrOrStderr())
	defer func() { _ = log.Sync() }()

	client, err := taxapi.New(cfg, log)
	if err != nil {
		return err
	}
	svc := application.NewOrderService(client, client, log)

	// 5. Fetch rate, print the total, submit
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.dryRun {
		form, err := svc.Quote(ctx, req)
		if err != nil {
			return err
		}
		if opts.jsonOutput {
			return renderCheckoutJSON(cmd, checkoutOutput{Form: form})
		}
		fmt.Fprint(out, tui.RenderQuote(form))
		return nil
	}

	form, result, err := svc.Checkout(ctx, req, func(form domain.OrderForm) {
		if !opts.jsonOutput {
			fmt.Fprint(out, tui.RenderQuote(form))
		}
	})
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return renderCheckoutJSON(cmd, checkoutOutput{Form: form, Result: result})
	}
	fmt.Fprint(out, tui.RenderResult(result))
	return nil
}

func renderCheckoutJSON(cmd *cobra.Command, v checkoutOutput) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
