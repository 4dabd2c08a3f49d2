package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"

	"github.com/Veraticus/meu-bolso/internal/app"
	"github.com/Veraticus/meu-bolso/internal/cli"
	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/config"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/storage"
)

// nowFunc is swapped by tests to pin the clock.
var nowFunc = time.Now

// openApp loads settings, opens the configured store and restores the
// session. Callers must Close the returned App.
func openApp(ctx context.Context) (*app.App, config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, config.Settings{}, err
	}

	store, err := storage.Open(ctx, settings.StorageBackend, settings.StoragePath)
	if err != nil {
		return nil, config.Settings{}, fmt.Errorf("failed to open storage: %w", err)
	}

	a := app.New(store, app.Options{
		Now:     nowFunc,
		Latency: settings.AuthLatency,
	})
	if err := a.Start(ctx); err != nil {
		_ = a.Close()
		return nil, config.Settings{}, err
	}

	return a, settings, nil
}

// openSession is openApp for commands that need a signed-in account.
func openSession(ctx context.Context) (*app.App, config.Settings, error) {
	a, settings, err := openApp(ctx)
	if err != nil {
		return nil, config.Settings{}, err
	}
	if _, err := a.RequireSession(); err != nil {
		_ = a.Close()
		return nil, config.Settings{}, common.NewUserError("faça login primeiro: bolso login", err)
	}
	return a, settings, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		common.LogWarn("Failed to close storage", common.Fields{"error": err.Error()})
	}
}

// resolveCategory finds a category by id or, ignoring case, by name.
func resolveCategory(categories []model.Category, ref string) (model.Category, error) {
	ref = strings.TrimSpace(ref)
	for _, c := range categories {
		if c.ID == ref {
			return c, nil
		}
	}
	fold := cases.Fold()
	want := fold.String(ref)
	for _, c := range categories {
		if fold.String(c.Name) == want {
			return c, nil
		}
	}
	return model.Category{}, common.NewValidationError("category", "por favor, selecione uma categoria")
}

// parseDate reads dd/mm/yyyy, or ISO yyyy-mm-dd, in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.NewValidationError("date", "data inválida, use dd/mm/aaaa")
}

func newPrompter(cmd *cobra.Command) *cli.Prompter {
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

// stringFlag returns the flag's value, or asks p when the flag was not given.
func stringFlag(ctx context.Context, cmd *cobra.Command, p *cli.Prompter, name, question string) (string, error) {
	if cmd.Flags().Changed(name) {
		return cmd.Flags().GetString(name)
	}
	return p.Ask(ctx, question, "")
}
