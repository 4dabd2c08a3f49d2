package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/meu-bolso/internal/cli"
	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/config"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bolso",
		Short: "💰 Meu Bolso: controle suas receitas e despesas",
		Long: `Meu Bolso registra receitas e despesas por conta, mostra um painel da
semana ou do mês e ajuda a planejar quanto guardar.

Os dados ficam apenas neste computador.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/bolso/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("storage", "", "storage backend (sqlite, file)")
	rootCmd.PersistentFlags().String("data", "", "path of the data file")

	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyStorageBackend, rootCmd.PersistentFlags().Lookup("storage"))
	_ = viper.BindPFlag(config.KeyStoragePath, rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.AddCommand(signupCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(forgotPasswordCmd())
	rootCmd.AddCommand(transactionsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(planningCmd())
	rootCmd.AddCommand(importOFXCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// A .env next to the working directory may carry BOLSO_* overrides.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/bolso", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BOLSO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	if err := setupLogging(settings); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging(settings config.Settings) error {
	level, err := common.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}

	logger, err := common.NewLogger(os.Stderr, level, settings.LogFormat)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bolso %s\n", version)
		},
	}
}
