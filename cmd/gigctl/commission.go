package main

import (
	"fmt"

	"campus-gig-workers/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newCommissionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "commission <budget>",
		Short:   "Show the platform commission and worker payout for a gig budget",
		Example: "  gigctl commission 3000",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			budget, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("budget %q is not a number: %w", args[0], err)
			}
			if !budget.IsPositive() {
				return fmt.Errorf("budget must be positive")
			}

			split := ledger.Commission(budget)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Commission for "+budget.StringFixed(2)))
			fmt.Fprintln(out, field("rate", split.Rate.Mul(decimal.NewFromInt(100)).String()+"%"))
			fmt.Fprintln(out, field("fee", split.Fee.StringFixed(2)))
			fmt.Fprintln(out, field("net", split.Net.StringFixed(2)))
			return nil
		},
	}
}
