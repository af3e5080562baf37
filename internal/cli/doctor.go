package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasuku43/ghqr/internal/app/doctor"
	"github.com/tasuku43/ghqr/internal/ui"
)

func (a *App) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check git and the workspace roots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := a.roots(cmd.Context())
			if err != nil {
				return err
			}
			result := doctor.Check(cmd.Context(), roots, a.Doctor)

			renderer := ui.NewRenderer(a.stdout(), ui.DefaultTheme(), isTerminal(a.stdout()))
			renderer.Header("ghqr doctor")
			renderer.Blank()
			renderer.Section("Details")
			for _, detail := range result.Details {
				renderer.Step(detail)
			}
			renderer.Blank()
			renderer.Section("Result")
			for _, warning := range result.Warnings {
				renderer.Warn(warning)
			}
			if len(result.Issues) == 0 {
				renderer.BulletSuccess("no issues found")
				return nil
			}
			for _, issue := range result.Issues {
				text := fmt.Sprintf("%s: %s", issue.Kind, issue.Message)
				if issue.Path != "" {
					text = fmt.Sprintf("%s: %s: %s", issue.Kind, issue.Path, issue.Message)
				}
				renderer.BulletError(text)
			}
			return fmt.Errorf("doctor found %d issue(s)", len(result.Issues))
		},
	}
}
