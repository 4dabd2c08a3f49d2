package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/meu-bolso/internal/model"
)

// ErrFormCanceled is returned when the user leaves the form without saving.
var ErrFormCanceled = errors.New("form canceled")

// RunConfig holds what the interactive form needs.
type RunConfig struct {
	Input      io.Reader
	Output     io.Writer
	Categories []model.Category
	Options    FormOptions
}

// RunTransactionForm shows the form until the user saves or cancels.
func RunTransactionForm(ctx context.Context, cfg RunConfig) (model.TransactionInput, error) {
	if len(cfg.Categories) == 0 {
		return model.TransactionInput{}, fmt.Errorf("no categories to choose from")
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	final, err := tea.NewProgram(NewTransactionForm(cfg.Categories, cfg.Options), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.TransactionInput{}, ctxErr
		}
		return model.TransactionInput{}, fmt.Errorf("TUI error: %w", err)
	}

	form, ok := final.(TransactionForm)
	if !ok {
		return model.TransactionInput{}, fmt.Errorf("unexpected model type %T", final)
	}
	if !form.Submitted() {
		return model.TransactionInput{}, ErrFormCanceled
	}
	return form.Input(), nil
}
