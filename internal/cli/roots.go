package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasuku43/ghqr/internal/core/paths"
)

func (a *App) rootsCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Print the workspace root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := a.roots(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				fmt.Fprintln(a.stdout(), paths.PrimaryRoot(roots))
				return nil
			}
			for _, root := range roots {
				fmt.Fprintln(a.stdout(), root)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print every workspace root in lookup order")
	return cmd
}
