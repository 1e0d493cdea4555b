package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/weekly-menu-agent/internal/menu"
)

// newOnceCmd runs the weekly job immediately and exits.
func newOnceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Build and send this week's menu now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(cmd.Context(), appInstance)

			run := appInstance.RunOnce(cmd.Context())
			if run.Status != menu.RunStatusSucceeded {
				return fmt.Errorf("run %s failed: %s", run.ID, run.ErrorText)
			}
			appInstance.Logger().Info("menu sent",
				zap.String("run_id", run.ID),
				zap.Int("recipes", run.Recipes),
				zap.Int("items", run.Items),
			)
			return nil
		},
	}
}
