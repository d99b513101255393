package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abdidvp/taxes/internal/adapters/outbound/tui"
	"github.com/abdidvp/taxes/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

func newRootCmd() *cobra.Command {
	opts := &checkoutOptions{}

	cmd := &cobra.Command{
		Use:   "taxes --zipcode <code> --subtotal <amount>",
		Short: "Compute sales tax for a zipcode and submit the order",
		Long: "taxes looks up the sales tax rate for a zipcode, computes tax and total for a subtotal, " +
			"prints the total and submits the order to the tax service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &domain.UsageError{Problems: []string{fmt.Sprintf("unexpected argument %q", args[0])}}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return runCheckout(cmd, opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &domain.UsageError{Problems: []string{err.Error()}}
	})

	cmd.Flags().Var(&opts.zipcode, "zipcode", "Zipcode for tax calculation")
	cmd.Flags().Var(&opts.subtotal, "subtotal", "Amount to be calculated")
	cmd.Flags().StringVar(&opts.configDir, "config-dir", ".", "Directory holding .taxes.yaml and .env")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the computed total without submitting the order")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output form and result as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests and responses to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, newRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

// RunForTest runs the command line with the given args and writers and
// returns the exit code Execute would have used.
func RunForTest(args []string, stdout, stderr io.Writer) int {
	return run(context.Background(), newRootCmd(), args, stdout, stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		if cmd == nil {
			cmd = root
		}
		reportError(cmd, err)
	}
	return ExitCode(err)
}

// ExitCode maps an error returned by a command to a process exit code:
// usage errors exit 2, every other failure exits 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usageErr *domain.UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}
	return ExitFailure
}

// reportError prints err to stderr. Usage errors list each problem and are
// followed by the command's usage.
func reportError(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()

	var usageErr *domain.UsageError
	if errors.As(err, &usageErr) {
		for _, p := range usageErr.Problems {
			fmt.Fprintln(w, p)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, cmd.UsageString())
		return
	}

	fmt.Fprint(w, tui.RenderError(err))
}
