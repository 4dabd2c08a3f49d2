package cli

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// Month names as printed in day headers; x/text carries no date formatting.
var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatBRL formats an amount as Brazilian reais, e.g. "R$ 1.234,50".
func FormatBRL(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	value := amount.Round(2).InexactFloat64()
	return sign + "R$ " + ptBR.Sprint(number.Decimal(value, number.Scale(2)))
}

// FormatSignedBRL prefixes the amount with + for income and - for expense.
func FormatSignedBRL(amount decimal.Decimal, income bool) string {
	if income {
		return "+" + FormatBRL(amount.Abs())
	}
	return "-" + FormatBRL(amount.Abs())
}

// FormatPercent formats a percentage with at most one decimal, e.g. "12,5%".
func FormatPercent(pct decimal.Decimal) string {
	value := pct.Round(1).InexactFloat64()
	return ptBR.Sprint(number.Decimal(value, number.MaxFractionDigits(1))) + "%"
}

// FormatDayHeader labels a transaction date relative to now: "Hoje",
// "Ontem", or "02 de março, 2024".
func FormatDayHeader(date, now time.Time) string {
	date = date.In(now.Location())
	dy, dm, dd := date.Date()
	ny, nm, nd := now.Date()
	if dy == ny && dm == nm && dd == nd {
		return "Hoje"
	}
	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if dy == yy && dm == ym && dd == yd {
		return "Ontem"
	}
	return fmt.Sprintf("%02d de %s, %d", dd, monthNames[dm-1], dy)
}

// FormatMonth returns "março de 2024".
func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%s de %d", monthNames[t.Month()-1], t.Year())
}

// FormatShortDate returns "02/03".
func FormatShortDate(t time.Time) string {
	return t.Format("02/01")
}
