// Package cli renders bolso's terminal output with lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/meu-bolso/internal/model"
)

// Palette. Success and error messages reuse the income and expense colours.
var (
	PrimaryColor = lipgloss.Color("#7C5CFF")
	IncomeColor  = lipgloss.Color("#10B981")
	ExpenseColor = lipgloss.Color("#EF4444")
	WarningColor = lipgloss.Color("#F59E0B")
	InfoColor    = lipgloss.Color("#60A5FA")
	MutedColor   = lipgloss.Color("#6B7280")
	BorderColor  = lipgloss.Color("#374151")
)

var (
	// TitleStyle heads a whole report.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SectionStyle heads a block inside a report.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	IncomeStyle  = lipgloss.NewStyle().Foreground(IncomeColor)
	ExpenseStyle = lipgloss.NewStyle().Foreground(ExpenseColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(MutedColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// ProgressStyle colours the description next to a progress bar.
	ProgressStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(InfoColor)

	// TableHeaderStyle underlines table column names.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(BorderColor)

	// PromptStyle is used for questions read from stdin.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	WalletIcon  = "💰"
	ChartIcon   = "📊"
	TipIcon     = "💡"
	IncomeIcon  = "▲"
	ExpenseIcon = "▼"
)

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string {
	return IncomeStyle.Render(SuccessIcon + " " + message)
}

// FormatError prefixes message with a cross.
func FormatError(message string) string {
	return ExpenseStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle renders a report title.
func FormatTitle(title string) string {
	return TitleStyle.Render(WalletIcon + " " + title)
}

// FormatSection renders a heading inside a report. icon may be empty.
func FormatSection(icon, title string) string {
	if icon != "" {
		title = icon + " " + title
	}
	return SectionStyle.Render(title)
}

// FormatPrompt renders a question waiting for input.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox draws content inside a rounded border under title.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		SectionStyle.Render(title),
		content,
	))
}

// StyleByType colors text as income or expense.
func StyleByType(typ model.TransactionType, text string) string {
	if typ == model.TypeIncome {
		return IncomeStyle.Render(text)
	}
	return ExpenseStyle.Render(text)
}

// StyleBalance colors a balance by its sign.
func StyleBalance(negative bool, text string) string {
	if negative {
		return ExpenseStyle.Render(text)
	}
	return IncomeStyle.Render(text)
}

// TypeIcon returns the arrow shown next to a transaction of typ.
func TypeIcon(typ model.TransactionType) string {
	if typ == model.TypeIncome {
		return IncomeIcon
	}
	return ExpenseIcon
}
