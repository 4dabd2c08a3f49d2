package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/meu-bolso/internal/cli"
	"github.com/Veraticus/meu-bolso/internal/report"
)

func planningCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "planning",
		Short: "Compare this month's savings with the 20% goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			renderPlanning(cmd.OutOrStdout(), report.Planning(a.Ledger.Transactions(), a.Now()))
			return nil
		},
	}
}

func renderPlanning(w io.Writer, p report.PlanningSummary) {
	fmt.Fprintln(w, cli.FormatTitle("Planejamento: "+cli.FormatMonth(p.Month)))

	rate := fmt.Sprintf("Taxa de economia: %s (meta: %s)", cli.FormatPercent(p.SavingsRate), cli.FormatPercent(p.Goal))
	summary := fmt.Sprintf("Receitas  %s\nDespesas  %s\n\n%s",
		cli.IncomeStyle.Render(cli.FormatBRL(p.Income)),
		cli.ExpenseStyle.Render(cli.FormatBRL(p.Expense)),
		rate)
	fmt.Fprintln(w, cli.RenderBox("Economia do mês", summary))

	if p.GoalMet {
		fmt.Fprintln(w, cli.FormatSuccess(p.Message))
	} else {
		fmt.Fprintln(w, cli.FormatWarning(p.Message))
	}

	fmt.Fprintln(w)
	renderCategoryShares(w, "Para onde vai o dinheiro", p.Categories)

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.FormatSection(cli.TipIcon, "Sugestões"))
	for _, advice := range p.Advice {
		fmt.Fprintf(w, "  • %s\n", advice)
	}
}
