package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/meu-bolso/internal/cli"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.

Debits are filed as "Outras Despesas" and credits as "Outras Receitas"; use
'bolso tx edit' to recategorize. Entries already imported are skipped, so the
same statement can be imported again safely.

Examples:
  # Import single file
  bolso import-ofx ~/Downloads/extrato_marco.ofx

  # Import every statement in a directory
  bolso import-ofx ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(),
				"Importação interrompida.",
				"Nada foi salvo; execute o comando novamente.")
			ctx, cancel := handler.HandleInterrupts(cmd.Context())
			defer cancel()

			a, _, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			drafts, err := parseStatements(ctx, cmd.ErrOrStderr(), files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(drafts) == 0 {
				fmt.Fprintln(out, cli.FormatWarning("Nenhuma transação encontrada nos arquivos."))
				return nil
			}

			if dryRun {
				renderImportPreview(out, drafts)
				fmt.Fprintln(out, cli.FormatInfo("Simulação concluída; nada foi salvo."))
				return nil
			}

			result, err := a.Ledger.ImportTransactions(ctx, drafts)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d transações importadas, %d já existentes ignoradas.",
				len(result.Added), result.Skipped)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "preview the import without saving")

	return cmd
}

// expandFiles resolves glob patterns; plain paths pass through when they exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// parseStatements reads every file, oldest entry first, so the newest lands
// at the top of the ledger.
func parseStatements(ctx context.Context, progress io.Writer, files []string) ([]model.TransactionInput, error) {
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(cli.ProgressStyle.Render("Lendo extratos...")),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(progress); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	parser := ofx.NewParser()
	var drafts []model.TransactionInput
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stmt, err := parseStatementFile(ctx, parser, path)
		if err != nil {
			return nil, err
		}
		slog.Info("Processed file",
			"file", filepath.Base(path),
			"accounts", stmt.Accounts,
			"transactions_found", len(stmt.Drafts),
			"skipped", stmt.Skipped)
		drafts = append(drafts, stmt.Drafts...)

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].Date.Before(drafts[j].Date)
	})
	return drafts, nil
}

func parseStatementFile(ctx context.Context, parser *ofx.Parser, path string) (*ofx.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	stmt, err := parser.ParseFile(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return stmt, nil
}

func renderImportPreview(w io.Writer, drafts []model.TransactionInput) {
	fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("%d transações encontradas", len(drafts))))
	for _, d := range drafts {
		amount := cli.FormatSignedBRL(d.Amount, d.Type == model.TypeIncome)
		fmt.Fprintf(w, "  %s  %-36s %s\n",
			d.Date.Format("02/01/2006"),
			d.Description,
			cli.StyleByType(d.Type, amount))
	}
}
