package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newPreviewCmd prints this week's email instead of sending it.
func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Print this week's menu email without sending it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(cmd.Context(), appInstance)

			subject, body, _, err := appInstance.Preview(cmd.Context())
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subject: %s\n\n%s\n", subject, body)
			return nil
		},
	}
}
