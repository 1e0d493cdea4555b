// Package cmd defines the CLI commands for the menu-agent executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/weekly-menu-agent/internal/config"
	"github.com/JakeFAU/weekly-menu-agent/internal/menu"
	"github.com/JakeFAU/weekly-menu-agent/internal/server"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App is what the commands need from the wired application. Tests replace
// it with a fake.
type App interface {
	Run(ctx context.Context) error
	RunOnce(ctx context.Context) menu.Run
	Preview(ctx context.Context) (subject, body string, plan menu.Plan, err error)
	Close(ctx context.Context) error
	Logger() *zap.Logger
}

// newApp is the application factory. It's a variable so tests can swap it.
var newApp = func(ctx context.Context) (App, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	appInstance, err := server.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return appInstance, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu-agent",
		Short: "Mails a weekly menu and shopping list.",
		Long: `menu-agent picks five recipes from a listing page every Sunday morning,
builds a shopping list from their ingredients and mails both to the
configured recipient. It runs until interrupted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return appInstance.Run(cmd.Context())
		},
	}

	cmd.AddCommand(newOnceCmd(), newPreviewCmd())
	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// closeApp releases the app after a one-shot command. Run closes itself on
// shutdown.
func closeApp(ctx context.Context, appInstance App) {
	if err := appInstance.Close(context.WithoutCancel(ctx)); err != nil {
		appInstance.Logger().Warn("failed to close application", zap.Error(err))
	}
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
