package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/meu-bolso/internal/model"
)

// Theme defines the visual style of the form.
type Theme struct {
	Title      lipgloss.Style
	Label      lipgloss.Style
	Focused    lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	Error      lipgloss.Style
	Income     lipgloss.Style
	Expense    lipgloss.Style
	RoundedBox lipgloss.Style
	Primary    lipgloss.Color
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#7c3aed"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Width(12),
	Focused: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7c3aed")).
		Bold(true).
		Width(12),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true).
		Padding(0, 1),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Padding(0, 1),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		MarginLeft(12),
	Income: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	Expense: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(1, 2),
}

// CategoryIcons maps stored icon tags to what the terminal shows.
var CategoryIcons = map[model.CategoryIcon]string{
	model.IconCategory:  "🏷️",
	model.IconWallet:    "👛",
	model.IconPiggyBank: "🐷",
}

// CategoryGlyph returns the glyph for an icon tag.
func CategoryGlyph(icon model.CategoryIcon) string {
	return CategoryIcons[model.NormalizeIcon(icon)]
}
