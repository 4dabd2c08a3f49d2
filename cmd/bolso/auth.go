package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/meu-bolso/internal/cli"
	"github.com/Veraticus/meu-bolso/internal/model"
)

func signupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Long: `Create a local account. The e-mail must be unique on this computer.
Missing values are asked for interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := newPrompter(cmd)

			name, err := stringFlag(ctx, cmd, p, "name", "Nome")
			if err != nil {
				return err
			}
			email, err := stringFlag(ctx, cmd, p, "email", "E-mail")
			if err != nil {
				return err
			}
			password, err := stringFlag(ctx, cmd, p, "password", "Senha")
			if err != nil {
				return err
			}

			a, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			account, err := a.Signup(ctx, email, password, name)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Conta criada! Bem-vindo(a), %s.", account.DisplayName())))
			return nil
		},
	}

	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "e-mail address")
	cmd.Flags().String("password", "", "password")

	return cmd
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := newPrompter(cmd)

			email, err := stringFlag(ctx, cmd, p, "email", "E-mail")
			if err != nil {
				return err
			}
			password, err := stringFlag(ctx, cmd, p, "password", "Senha")
			if err != nil {
				return err
			}

			a, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			account, err := a.Login(ctx, email, password)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Olá, %s!", account.DisplayName())))
			return nil
		},
	}

	cmd.Flags().String("email", "", "e-mail address")
	cmd.Flags().String("password", "", "password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; your data stays on this computer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if err := a.Logout(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Sessão encerrada."))
			return nil
		},
	}
}

func accountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			account := a.Session()
			if account == nil {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nenhuma sessão ativa. Use 'bolso login' ou 'bolso signup'."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(account.DisplayName(), accountDetails(*account)))
			return nil
		},
	}
}

func accountDetails(account model.Account) string {
	details := fmt.Sprintf("E-mail: %s", account.Email)
	if !account.CreatedAt.IsZero() {
		details += fmt.Sprintf("\nDesde:  %s", account.CreatedAt.Local().Format("02/01/2006"))
	}
	return details
}

func forgotPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request password reset instructions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := newPrompter(cmd)

			email, err := stringFlag(ctx, cmd, p, "email", "E-mail")
			if err != nil {
				return err
			}

			a, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			ack, err := a.Identity.RequestPasswordReset(ctx, email)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(ack))
			return nil
		},
	}

	cmd.Flags().String("email", "", "e-mail address")

	return cmd
}
