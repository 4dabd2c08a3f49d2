// Package report derives dashboard and planning figures from a transaction list.
//
// Everything here is a pure function of its arguments. Functions that depend on
// "today" take the current time explicitly and use its location for calendar
// boundaries.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Period selects a calendar window relative to now.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts "week" or "month", plus the pt-BR labels.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "week", "semana":
		return PeriodWeek, nil
	case "month", "mes", "mês", "":
		return PeriodMonth, nil
	default:
		return "", common.NewValidationError("period", fmt.Sprintf("período inválido: %s", s))
	}
}

// SumByType adds up the amounts of transactions of type typ.
func SumByType(txs []model.Transaction, typ model.TransactionType) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if t.Type == typ {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// Balance is total income minus total expense.
func Balance(txs []model.Transaction) decimal.Decimal {
	return SumByType(txs, model.TypeIncome).Sub(SumByType(txs, model.TypeExpense))
}

// PeriodBounds returns the half-open interval [start, end) of the calendar
// week or month containing now, in now's location.
func PeriodBounds(period Period, now time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	y, m, d := now.Date()
	loc := now.Location()

	if period == PeriodWeek {
		offset := (int(now.Weekday()) - int(weekStart) + 7) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7)
	}

	start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// FilterByPeriod keeps the transactions dated inside the current calendar
// week or month. Input order is preserved.
func FilterByPeriod(txs []model.Transaction, period Period, now time.Time, weekStart time.Weekday) []model.Transaction {
	start, end := PeriodBounds(period, now, weekStart)

	out := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		d := t.Date.In(now.Location())
		if !d.Before(start) && d.Before(end) {
			out = append(out, t)
		}
	}
	return out
}

// GroupSumByCategory sums expense amounts per category name.
func GroupSumByCategory(txs []model.Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Type != model.TypeExpense {
			continue
		}
		out[t.Category.Name] = out[t.Category.Name].Add(t.Amount)
	}
	return out
}

// PercentageOfTotal returns amount as a percentage of total, or zero when
// total is zero.
func PercentageOfTotal(amount, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return amount.Div(total).Mul(hundred)
}

// CategoryShare is one category's slice of total expense.
type CategoryShare struct {
	Name       string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// RankCategories orders categories by amount, largest first, breaking ties
// by name.
func RankCategories(byCategory map[string]decimal.Decimal, total decimal.Decimal) []CategoryShare {
	shares := make([]CategoryShare, 0, len(byCategory))
	for name, amount := range byCategory {
		shares = append(shares, CategoryShare{
			Name:       name,
			Amount:     amount,
			Percentage: PercentageOfTotal(amount, total),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if c := shares[i].Amount.Cmp(shares[j].Amount); c != 0 {
			return c > 0
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}

// DateGroup holds the transactions recorded on one calendar day.
type DateGroup struct {
	Date         time.Time // midnight in the grouping location
	Transactions []model.Transaction
}

// GroupByCalendarDate buckets transactions by calendar day in loc, newest
// day first. Transactions keep their input order within a day.
func GroupByCalendarDate(txs []model.Transaction, loc *time.Location) []DateGroup {
	if loc == nil {
		loc = time.Local
	}

	index := make(map[time.Time]int)
	var groups []DateGroup
	for _, t := range txs {
		y, m, d := t.Date.In(loc).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)

		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DateGroup{Date: day})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}

// DailyTotal is the income and expense recorded on one day.
type DailyTotal struct {
	Date    time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Day     int
}

// DailySeries returns one entry per day of month's calendar month, in
// month's location, zero-filled where nothing was recorded.
func DailySeries(txs []model.Transaction, month time.Time) []DailyTotal {
	loc := month.Location()
	y, m, _ := month.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	days := first.AddDate(0, 1, -1).Day()

	series := make([]DailyTotal, days)
	for i := range series {
		series[i] = DailyTotal{
			Date:    first.AddDate(0, 0, i),
			Day:     i + 1,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	for _, t := range txs {
		ty, tm, td := t.Date.In(loc).Date()
		if ty != y || tm != m {
			continue
		}
		entry := &series[td-1]
		switch t.Type {
		case model.TypeIncome:
			entry.Income = entry.Income.Add(t.Amount)
		case model.TypeExpense:
			entry.Expense = entry.Expense.Add(t.Amount)
		}
	}
	return series
}

// SavingsRate is the share of income left after expenses, as a percentage.
// It is zero when there is no income.
func SavingsRate(income, expense decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return income.Sub(expense).Div(income).Mul(hundred)
}
