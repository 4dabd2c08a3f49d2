package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/meu-bolso/internal/cli"
	"github.com/Veraticus/meu-bolso/internal/report"
)

// barWidth is the width of the longest bar in the daily chart.
const barWidth = 30

func dashboardCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show income, expenses and balance for this week or month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := report.ParsePeriod(period)
			if err != nil {
				return err
			}

			a, settings, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			summary := report.Dashboard(a.Ledger.Transactions(), p, a.Now(), settings.WeekStart)
			renderDashboard(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", string(report.PeriodMonth), "week or month")

	return cmd
}

func renderDashboard(w io.Writer, s report.DashboardSummary) {
	title := "Este mês: " + cli.FormatMonth(s.Start)
	if s.Period == report.PeriodWeek {
		title = fmt.Sprintf("Esta semana: %s a %s", cli.FormatShortDate(s.Start), cli.FormatShortDate(s.End.AddDate(0, 0, -1)))
	}
	fmt.Fprintln(w, cli.FormatTitle(title))

	balance := cli.StyleBalance(s.Balance.IsNegative(), cli.FormatBRL(s.Balance))
	totals := fmt.Sprintf("%s Receitas  %s\n%s Despesas  %s\n  Saldo     %s",
		cli.IncomeStyle.Render(cli.IncomeIcon), cli.IncomeStyle.Render(cli.FormatBRL(s.Income)),
		cli.ExpenseStyle.Render(cli.ExpenseIcon), cli.ExpenseStyle.Render(cli.FormatBRL(s.Expense)),
		balance)
	fmt.Fprintln(w, cli.RenderBox("Resumo", totals))

	fmt.Fprintln(w)
	renderCategoryShares(w, "Despesas por categoria", s.Categories)

	if len(s.Daily) > 0 {
		fmt.Fprintln(w)
		renderDailyChart(w, s.Daily)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.FormatSection(cli.TipIcon, "Dicas"))
	for _, tip := range s.Tips {
		fmt.Fprintf(w, "  • %s\n", tip)
	}
}

func renderCategoryShares(w io.Writer, title string, shares []report.CategoryShare) {
	fmt.Fprintln(w, cli.FormatSection(cli.ChartIcon, title))
	if len(shares) == 0 {
		fmt.Fprintln(w, cli.SubtleStyle.Render("  Nenhuma despesa no período."))
		return
	}
	for _, c := range shares {
		fmt.Fprintf(w, "  %-20s %14s  %6s\n", c.Name, cli.FormatBRL(c.Amount), cli.FormatPercent(c.Percentage))
	}
}

// renderDailyChart draws one bar per day that had any movement.
func renderDailyChart(w io.Writer, days []report.DailyTotal) {
	peak := decimal.Zero
	for _, d := range days {
		peak = decimal.Max(peak, d.Income, d.Expense)
	}
	if peak.IsZero() {
		return
	}

	fmt.Fprintln(w, cli.FormatSection("", "Movimento diário"))
	for _, d := range days {
		if d.Income.IsZero() && d.Expense.IsZero() {
			continue
		}
		fmt.Fprintf(w, "  %02d %s\n", d.Day, cli.IncomeStyle.Render(bar(d.Income, peak)))
		fmt.Fprintf(w, "     %s\n", cli.ExpenseStyle.Render(bar(d.Expense, peak)))
	}
}

func bar(v, peak decimal.Decimal) string {
	n := int(v.Div(peak).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	if n == 0 && v.IsPositive() {
		n = 1
	}
	return strings.Repeat("█", n)
}
