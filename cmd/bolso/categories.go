package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/meu-bolso/internal/cli"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/tui"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
		Long:  `List and add the categories transactions are filed under. Every account starts with a default set.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var typeFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			categories := a.Ledger.Categories()
			if typeFlag != "" {
				typ, err := model.ParseTransactionType(typeFlag)
				if err != nil {
					return err
				}
				filtered := categories[:0]
				for _, c := range categories {
					if c.Type == typ {
						filtered = append(filtered, c)
					}
				}
				categories = filtered
			}

			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("Nenhuma categoria encontrada. Use 'bolso categories add' para criar uma."))
				return nil
			}

			return writeCategoryTable(cmd.OutOrStdout(), categories)
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "only income or expense categories")

	return cmd
}

func writeCategoryTable(out io.Writer, categories []model.Category) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Nome"),
		cli.TableHeaderStyle.Render("Tipo"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("-", 8),
		strings.Repeat("-", 24),
		strings.Repeat("-", 8))

	for _, c := range categories {
		fmt.Fprintf(w, "%s\t%s %s\t%s\n", c.ID, tui.CategoryGlyph(c.Icon), c.Name, typeName(c.Type))
	}

	return w.Flush()
}

func typeName(t model.TransactionType) string {
	if t == model.TypeIncome {
		return "Receita"
	}
	return "Despesa"
}

func addCategoryCmd() *cobra.Command {
	var (
		typeFlag string
		icon     string
	)

	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a category",
		Example: `  bolso categories add Pets --type despesa`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			typ, err := model.ParseTransactionType(typeFlag)
			if err != nil {
				return err
			}

			a, _, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			c, err := a.Ledger.AddCategory(ctx, model.CategoryInput{
				Name: args[0],
				Type: typ,
				Icon: model.CategoryIcon(icon),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Categoria %q criada (%s).", c.Name, c.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", string(model.TypeExpense), "income or expense")
	cmd.Flags().StringVar(&icon, "icon", string(model.IconCategory), "icon: category, wallet, piggy-bank")

	return cmd
}
