package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/meu-bolso/internal/model"
)

// SavingsGoal is the share of income the planning view asks users to keep.
var SavingsGoal = decimal.NewFromInt(20)

// Planning messages.
const (
	GoalMetMessage    = "Parabéns! Você está economizando uma boa parte da sua renda."
	GoalMissedMessage = "Tente economizar pelo menos 20% da sua renda mensal."
)

// PlanningAdvice is shown under every planning summary.
var PlanningAdvice = []string{
	"Reserve de 10% a 20% da sua renda mensal para um fundo de emergências.",
	"Use a regra 50/30/20: 50% para necessidades, 30% para desejos e 20% para poupança.",
	"Revise assinaturas e serviços mensais para identificar economias potenciais.",
	"Considere investir parte das suas economias para proteger-se da inflação.",
}

// DashboardSummary holds the figures for one dashboard period.
type DashboardSummary struct {
	Start      time.Time
	End        time.Time
	Period     Period
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Balance    decimal.Decimal
	Categories []CategoryShare
	Daily      []DailyTotal // month only
	Tips       []string
}

// Dashboard summarizes the transactions inside the current week or month.
// Tips look at the whole list, as the insights are not tied to the period.
func Dashboard(txs []model.Transaction, period Period, now time.Time, weekStart time.Weekday) DashboardSummary {
	start, end := PeriodBounds(period, now, weekStart)
	inPeriod := FilterByPeriod(txs, period, now, weekStart)

	income := SumByType(inPeriod, model.TypeIncome)
	expense := SumByType(inPeriod, model.TypeExpense)

	summary := DashboardSummary{
		Start:      start,
		End:        end,
		Period:     period,
		Income:     income,
		Expense:    expense,
		Balance:    income.Sub(expense),
		Categories: RankCategories(GroupSumByCategory(inPeriod), expense),
		Tips:       GenerateTips(txs, income, expense, now),
	}
	if period == PeriodMonth {
		summary.Daily = DailySeries(inPeriod, now)
	}
	return summary
}

// PlanningSummary holds the current month's savings picture.
type PlanningSummary struct {
	Month       time.Time
	Income      decimal.Decimal
	Expense     decimal.Decimal
	SavingsRate decimal.Decimal
	Goal        decimal.Decimal
	Message     string
	Categories  []CategoryShare
	Advice      []string
	GoalMet     bool
}

// Planning summarizes now's calendar month against the savings goal.
func Planning(txs []model.Transaction, now time.Time) PlanningSummary {
	start, _ := PeriodBounds(PeriodMonth, now, time.Sunday)
	inMonth := FilterByPeriod(txs, PeriodMonth, now, time.Sunday)

	income := SumByType(inMonth, model.TypeIncome)
	expense := SumByType(inMonth, model.TypeExpense)
	rate := SavingsRate(income, expense)
	met := rate.GreaterThanOrEqual(SavingsGoal)

	message := GoalMissedMessage
	if met {
		message = GoalMetMessage
	}

	return PlanningSummary{
		Month:       start,
		Income:      income,
		Expense:     expense,
		SavingsRate: rate,
		Goal:        SavingsGoal,
		GoalMet:     met,
		Message:     message,
		Categories:  RankCategories(GroupSumByCategory(inMonth), expense),
		Advice:      append([]string(nil), PlanningAdvice...),
	}
}
