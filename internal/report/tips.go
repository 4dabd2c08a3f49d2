package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/meu-bolso/internal/model"
)

// Starter tips, shown before anything has been recorded.
var starterTips = []string{
	"Comece registrando suas receitas e despesas para obter insights personalizados.",
	"Criar um orçamento é o primeiro passo para uma vida financeira saudável.",
	"Tente economizar pelo menos 20% da sua renda mensal.",
}

// General tips, appended when the rules produce fewer than three.
var generalTips = []string{
	"Reserve uma parte da sua renda para emergências, idealmente o equivalente a 3-6 meses de despesas.",
	"Considere investir parte das suas economias para proteger-se da inflação.",
	"Revise suas despesas recorrentes mensalmente para identificar oportunidades de economia.",
}

var (
	highSpendingRatio     = decimal.NewFromInt(90)
	moderateSpendingRatio = decimal.NewFromInt(70)
)

// GenerateTips produces the dashboard insights.
//
// totalIncome and totalExpense are the figures for the period on screen. The
// highest spending category is always taken from now's calendar month.
func GenerateTips(txs []model.Transaction, totalIncome, totalExpense decimal.Decimal, now time.Time) []string {
	if len(txs) == 0 {
		return append([]string(nil), starterTips...)
	}

	var tips []string

	if totalIncome.IsPositive() {
		ratio := PercentageOfTotal(totalExpense, totalIncome)
		pct := ratio.StringFixed(0)
		switch {
		case ratio.GreaterThan(highSpendingRatio):
			tips = append(tips, fmt.Sprintf("Você está gastando %s%% da sua renda. Considere reduzir despesas para melhorar sua saúde financeira.", pct))
		case ratio.GreaterThan(moderateSpendingRatio):
			tips = append(tips, fmt.Sprintf("Você está gastando %s%% da sua renda. Está dentro do razoável, mas tente economizar mais.", pct))
		default:
			tips = append(tips, fmt.Sprintf("Parabéns! Você está gastando apenas %s%% da sua renda, o que é excelente para sua saúde financeira.", pct))
		}
	}

	monthly := FilterByPeriod(txs, PeriodMonth, now, time.Sunday)
	if name, amount, ok := highestExpenseCategory(monthly); ok && totalExpense.IsPositive() {
		pct := PercentageOfTotal(amount, totalExpense).StringFixed(0)
		tips = append(tips, fmt.Sprintf("Sua maior despesa é com %s, representando %s%% do total gasto.", name, pct))
	}

	if len(tips) < 3 {
		tips = append(tips, generalTips...)
	}
	return tips
}

// highestExpenseCategory finds the category with the largest expense total.
// On a tie the category that appears first in txs wins.
func highestExpenseCategory(txs []model.Transaction) (string, decimal.Decimal, bool) {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range txs {
		if t.Type != model.TypeExpense {
			continue
		}
		if _, seen := sums[t.Category.Name]; !seen {
			order = append(order, t.Category.Name)
		}
		sums[t.Category.Name] = sums[t.Category.Name].Add(t.Amount)
	}

	var (
		best   string
		amount = decimal.Zero
	)
	for _, name := range order {
		if sums[name].GreaterThan(amount) {
			best, amount = name, sums[name]
		}
	}
	return best, amount, best != ""
}
