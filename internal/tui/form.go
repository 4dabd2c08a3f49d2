// Package tui implements the interactive transaction form.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/meu-bolso/internal/model"
)

// DateLayout is how dates are typed into the form.
const DateLayout = "02/01/2006"

// Field identifies one row of the form.
type Field int

// Form rows, in focus order.
const (
	FieldType Field = iota
	FieldAmount
	FieldCategory
	FieldDescription
	FieldDate
	fieldCount
)

var fieldLabels = [...]string{
	FieldType:        "Tipo",
	FieldAmount:      "Valor",
	FieldCategory:    "Categoria",
	FieldDescription: "Descrição",
	FieldDate:        "Data",
}

// FormOptions configures a new form.
type FormOptions struct {
	// Initial pre-fills the form when editing an existing transaction.
	Initial *model.Transaction
	Now     time.Time
	Theme   *Theme
}

// TransactionForm is a bubbletea model that collects a TransactionInput.
type TransactionForm struct {
	now         time.Time
	initialDate time.Time
	initialText string
	errors      map[Field]string
	theme       Theme
	keys        KeyMap
	help        help.Model
	title       string
	categories  []model.Category
	amount      textinput.Model
	description textinput.Model
	date        textinput.Model
	result      model.TransactionInput
	txType      model.TransactionType
	focus       Field
	categoryIdx int
	submitted   bool
	canceled    bool
}

// NewTransactionForm creates a form over the account's categories.
func NewTransactionForm(categories []model.Category, opts FormOptions) TransactionForm {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	amount := textinput.New()
	amount.Placeholder = "0,00"
	amount.CharLimit = 20

	description := textinput.New()
	description.Placeholder = "Ex: Almoço, Uber, Salário..."
	description.CharLimit = 120

	date := textinput.New()
	date.Placeholder = "dd/mm/aaaa"
	date.CharLimit = len(DateLayout)
	date.SetValue(now.Format(DateLayout))

	m := TransactionForm{
		now:         now,
		errors:      make(map[Field]string),
		theme:       theme,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		title:       "Nova transação",
		categories:  categories,
		amount:      amount,
		description: description,
		date:        date,
		txType:      model.TypeExpense,
	}

	if tx := opts.Initial; tx != nil {
		m.title = "Editar transação"
		m.txType = tx.Type
		m.amount.SetValue(strings.Replace(tx.Amount.StringFixed(2), ".", ",", 1))
		m.description.SetValue(tx.Description)
		if !tx.Date.IsZero() {
			m.initialDate = tx.Date
			m.initialText = tx.Date.In(now.Location()).Format(DateLayout)
			m.date.SetValue(m.initialText)
		}
		for i, c := range m.visibleCategories() {
			if c.ID == tx.Category.ID {
				m.categoryIdx = i
			}
		}
	}

	return m
}

// Init returns initial commands.
func (m TransactionForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m TransactionForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateFocusedInput(msg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.canceled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Submit):
		if m.validate() {
			m.submitted = true
			return m, tea.Quit
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(keyMsg, m.keys.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	if m.focus == FieldType || m.focus == FieldCategory {
		step := 0
		switch {
		case key.Matches(keyMsg, m.keys.Left):
			step = -1
		case key.Matches(keyMsg, m.keys.Right):
			step = 1
		}
		if step != 0 {
			m.cycle(step)
		}
		return m, nil
	}

	delete(m.errors, m.focus)
	return m, m.updateFocusedInput(msg)
}

func (m *TransactionForm) cycle(step int) {
	if m.focus == FieldType {
		if m.txType == model.TypeExpense {
			m.txType = model.TypeIncome
		} else {
			m.txType = model.TypeExpense
		}
		m.categoryIdx = 0
		delete(m.errors, FieldCategory)
		return
	}

	n := len(m.visibleCategories())
	if n == 0 {
		return
	}
	m.categoryIdx = (m.categoryIdx + step + n) % n
	delete(m.errors, FieldCategory)
}

func (m *TransactionForm) setFocus(f Field) tea.Cmd {
	m.focus = f
	m.amount.Blur()
	m.description.Blur()
	m.date.Blur()

	switch f {
	case FieldAmount:
		return m.amount.Focus()
	case FieldDescription:
		return m.description.Focus()
	case FieldDate:
		return m.date.Focus()
	default:
		return nil
	}
}

func (m *TransactionForm) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case FieldAmount:
		m.amount, cmd = m.amount.Update(msg)
	case FieldDescription:
		m.description, cmd = m.description.Update(msg)
	case FieldDate:
		m.date, cmd = m.date.Update(msg)
	}
	return cmd
}

func (m TransactionForm) visibleCategories() []model.Category {
	var out []model.Category
	for _, c := range m.categories {
		if c.Type == m.txType {
			out = append(out, c)
		}
	}
	return out
}

// validate fills m.errors and, when every field is valid, m.result.
func (m *TransactionForm) validate() bool {
	m.errors = make(map[Field]string)

	amount, err := model.ParseAmount(m.amount.Value())
	if err != nil {
		m.errors[FieldAmount] = "por favor, informe um valor válido"
	}

	var categoryID string
	if cats := m.visibleCategories(); len(cats) > 0 && m.categoryIdx < len(cats) {
		categoryID = cats[m.categoryIdx].ID
	} else {
		m.errors[FieldCategory] = "por favor, selecione uma categoria"
	}

	date, err := m.parseDate()
	if err != nil {
		m.errors[FieldDate] = "data inválida, use dd/mm/aaaa"
	}

	if len(m.errors) > 0 {
		return false
	}

	m.result = model.TransactionInput{
		Date:        date,
		Type:        m.txType,
		CategoryID:  categoryID,
		Description: strings.TrimSpace(m.description.Value()),
		Amount:      amount,
	}
	return true
}

// parseDate keeps the edited transaction's timestamp while its day is left
// alone, and the current clock time when the typed day is today.
func (m TransactionForm) parseDate() (time.Time, error) {
	raw := strings.TrimSpace(m.date.Value())
	if !m.initialDate.IsZero() && raw == m.initialText {
		return m.initialDate, nil
	}
	if raw == "" || raw == m.now.Format(DateLayout) {
		return m.now, nil
	}
	return time.ParseInLocation(DateLayout, raw, m.now.Location())
}

// Submitted reports whether the user saved a valid form.
func (m TransactionForm) Submitted() bool {
	return m.submitted
}

// Canceled reports whether the user left without saving.
func (m TransactionForm) Canceled() bool {
	return m.canceled
}

// Input returns the collected transaction. Only meaningful after Submitted.
func (m TransactionForm) Input() model.TransactionInput {
	return m.result
}

// Error returns the inline message shown under f, if any.
func (m TransactionForm) Error(f Field) string {
	return m.errors[f]
}

// View renders the form.
func (m TransactionForm) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.title))
	b.WriteString("\n")

	for f := FieldType; f < fieldCount; f++ {
		b.WriteString(m.renderRow(f))
		b.WriteString("\n")
		if msg, ok := m.errors[f]; ok {
			b.WriteString(m.theme.Error.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return m.theme.RoundedBox.Render(b.String())
}

func (m TransactionForm) renderRow(f Field) string {
	labelStyle := m.theme.Label
	if m.focus == f {
		labelStyle = m.theme.Focused
	}
	label := labelStyle.Render(fieldLabels[f])

	var value string
	switch f {
	case FieldType:
		value = m.renderTypeToggle()
	case FieldAmount:
		value = "R$ " + m.amount.View()
	case FieldCategory:
		value = m.renderCategories()
	case FieldDescription:
		value = m.description.View()
	case FieldDate:
		value = m.date.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label, value)
}

func (m TransactionForm) renderTypeToggle() string {
	expense := m.theme.Muted.Render("Despesa")
	income := m.theme.Muted.Render("Receita")
	if m.txType == model.TypeExpense {
		expense = m.theme.Expense.Inherit(m.theme.Selected).Render("Despesa")
	} else {
		income = m.theme.Income.Inherit(m.theme.Selected).Render("Receita")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, expense, " ", income)
}

func (m TransactionForm) renderCategories() string {
	cats := m.visibleCategories()
	if len(cats) == 0 {
		return m.theme.Muted.Render("nenhuma categoria")
	}
	parts := make([]string, 0, len(cats))
	for i, c := range cats {
		text := fmt.Sprintf("%s %s", CategoryGlyph(c.Icon), c.Name)
		if i == m.categoryIdx {
			parts = append(parts, m.theme.Selected.Render(text))
		} else {
			parts = append(parts, m.theme.Muted.Render(text))
		}
	}
	return lipgloss.NewStyle().Width(60).Render(strings.Join(parts, " "))
}
