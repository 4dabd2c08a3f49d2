package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the form's keyboard shortcuts.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab/↓", "próximo campo"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("Shift+Tab/↑", "campo anterior"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "opção anterior"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "próxima opção"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "salvar"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc", "cancelar"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Left, k.Right, k.Submit, k.Cancel}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Left, k.Right},
		{k.Submit, k.Cancel},
	}
}
