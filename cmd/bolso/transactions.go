package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/meu-bolso/internal/app"
	"github.com/Veraticus/meu-bolso/internal/cli"
	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/report"
	"github.com/Veraticus/meu-bolso/internal/tui"
)

// shortIDLen is how much of a transaction id the list prints.
const shortIDLen = 8

// runForm is swapped by tests; the real form needs a terminal.
var runForm = tui.RunTransactionForm

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "List and manage transactions",
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(editTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		search   string
		typeFlag string
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions grouped by day, newest first",
		Long: `List transactions grouped by day. --search matches the description or the
category name ignoring case; use * for glob patterns such as "uber*".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			q := report.Query{Term: search}
			if typeFlag != "" {
				if q.Type, err = model.ParseTransactionType(typeFlag); err != nil {
					return err
				}
			}
			if category != "" {
				c, err := resolveCategory(a.Ledger.Categories(), category)
				if err != nil {
					return err
				}
				q.CategoryID = c.ID
			}

			renderTransactionList(cmd.OutOrStdout(), report.Search(a.Ledger.Transactions(), q), a)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by description or category name")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "filter by type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category id or name")

	return cmd
}

func renderTransactionList(w io.Writer, txs []model.Transaction, a *app.App) {
	if len(txs) == 0 {
		fmt.Fprintln(w, cli.InfoStyle.Render("Nenhuma transação encontrada. Use 'bolso tx add' para registrar uma."))
		return
	}

	now := a.Now()
	for _, group := range report.GroupByCalendarDate(txs, now.Location()) {
		fmt.Fprintln(w, cli.BoldStyle.Render(cli.FormatDayHeader(group.Date, now)))
		for _, t := range group.Transactions {
			fmt.Fprintln(w, formatTransactionRow(t))
		}
		fmt.Fprintln(w)
	}
}

func formatTransactionRow(t model.Transaction) string {
	label := t.Description
	if label == "" {
		label = t.Category.Name
	}
	amount := cli.FormatSignedBRL(t.Amount, t.Type == model.TypeIncome)
	return fmt.Sprintf("  %s %-32s %-18s %s  %s",
		cli.StyleByType(t.Type, cli.TypeIcon(t.Type)),
		label,
		cli.SubtleStyle.Render(t.Category.Name),
		cli.StyleByType(t.Type, amount),
		cli.SubtleStyle.Render(shortID(t.ID)),
	)
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// findTransaction accepts a full id or an unambiguous prefix of one.
func findTransaction(txs []model.Transaction, ref string) (model.Transaction, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Transaction{}, common.NewUserError("informe o identificador da transação", nil)
	}

	var found []model.Transaction
	for _, t := range txs {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			found = append(found, t)
		}
	}

	switch len(found) {
	case 0:
		return model.Transaction{}, common.NewUserError(fmt.Sprintf("transação %q não encontrada", ref), nil)
	case 1:
		return found[0], nil
	default:
		return model.Transaction{}, common.NewUserError(fmt.Sprintf("%q corresponde a %d transações; use mais caracteres", ref, len(found)), nil)
	}
}

type transactionFlags struct {
	typeFlag    string
	amount      string
	category    string
	description string
	date        string
	interactive bool
}

func (f *transactionFlags) register(cmd *cobra.Command, defaultType string) {
	cmd.Flags().StringVarP(&f.typeFlag, "type", "t", defaultType, "income or expense (receita, despesa)")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 42,50")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "description")
	cmd.Flags().StringVar(&f.date, "date", "", "date as dd/mm/yyyy (default: now)")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "fill in an interactive form")
}

func (f *transactionFlags) input(categories []model.Category, loc *time.Location) (model.TransactionInput, error) {
	typ, err := model.ParseTransactionType(f.typeFlag)
	if err != nil {
		return model.TransactionInput{}, err
	}
	amount, err := model.ParseAmount(f.amount)
	if err != nil {
		return model.TransactionInput{}, err
	}
	if strings.TrimSpace(f.category) == "" {
		return model.TransactionInput{}, common.NewValidationError("category", "por favor, selecione uma categoria")
	}
	category, err := resolveCategory(categories, f.category)
	if err != nil {
		return model.TransactionInput{}, err
	}

	in := model.TransactionInput{
		Type:        typ,
		Amount:      amount,
		CategoryID:  category.ID,
		Description: strings.TrimSpace(f.description),
	}
	if f.date != "" {
		if in.Date, err = parseDate(f.date, loc); err != nil {
			return model.TransactionInput{}, err
		}
	}
	return in, nil
}

func addTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Example: `  bolso tx add --type despesa --amount 42,50 --category Alimentação --description Almoço
  bolso tx add -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, _, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			var in model.TransactionInput
			if flags.interactive {
				in, err = formInput(ctx, cmd, a, nil)
			} else {
				in, err = flags.input(a.Ledger.Categories(), a.Now().Location())
			}
			if err != nil {
				return err
			}

			tx, err := a.Ledger.AddTransaction(ctx, in)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Transação registrada: %s em %s (%s)",
				cli.FormatBRL(tx.Amount), tx.Category.Name, shortID(tx.ID))))
			return nil
		},
	}

	flags.register(cmd, string(model.TypeExpense))

	return cmd
}

func formInput(ctx context.Context, cmd *cobra.Command, a *app.App, initial *model.Transaction) (model.TransactionInput, error) {
	in, err := runForm(ctx, tui.RunConfig{
		Input:      cmd.InOrStdin(),
		Output:     cmd.OutOrStdout(),
		Categories: a.Ledger.Categories(),
		Options:    tui.FormOptions{Initial: initial, Now: a.Now()},
	})
	if errors.Is(err, tui.ErrFormCanceled) {
		return model.TransactionInput{}, common.NewUserError("operação cancelada", err)
	}
	return in, err
}

func editTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Long: `Change the fields given as flags and leave the rest untouched. The id may be
the short form shown by 'bolso tx list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, _, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			tx, err := findTransaction(a.Ledger.Transactions(), args[0])
			if err != nil {
				return err
			}

			var patch model.TransactionPatch
			if flags.interactive {
				in, err := formInput(ctx, cmd, a, &tx)
				if err != nil {
					return err
				}
				patch = patchFromInput(tx, in)
			} else if patch, err = flags.patch(cmd, a.Ledger.Categories(), a.Now().Location()); err != nil {
				return err
			}

			if patch.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nada para alterar."))
				return nil
			}

			if err := a.Ledger.UpdateTransaction(ctx, tx.ID, patch); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Transação atualizada."))
			return nil
		},
	}

	flags.register(cmd, "")

	return cmd
}

// patchFromInput keeps only the fields the form actually changed.
func patchFromInput(current model.Transaction, in model.TransactionInput) model.TransactionPatch {
	var patch model.TransactionPatch
	if !in.Date.Equal(current.Date) {
		patch.Date = &in.Date
	}
	if in.Type != current.Type {
		patch.Type = &in.Type
	}
	if in.CategoryID != current.Category.ID {
		patch.CategoryID = &in.CategoryID
	}
	if in.Description != current.Description {
		patch.Description = &in.Description
	}
	if !in.Amount.Equal(current.Amount) {
		patch.Amount = &in.Amount
	}
	return patch
}
