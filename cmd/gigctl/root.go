package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gigctl",
		Short: "Operator tooling for the campus gig workers",
		Long: `gigctl runs the marketplace ranking and commission rules offline,
reads wallet balances from the ledger database, prints the ledger schema
and exports the worker registry.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRankCmd(),
		newCommissionCmd(),
		newBalanceCmd(),
		newSchemaCmd(),
		newWorkersCmd(),
	)
	return root
}

func field(label string, value interface{}) string {
	return labelStyle.Render(label+":") + " " + valueStyle.Render(fmt.Sprint(value))
}
