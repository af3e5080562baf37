package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasuku43/ghqr/internal/domain/repo"
)

func (a *App) listCommand() *cobra.Command {
	var opts repo.ListOptions
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List local repositories",
		Long: `List repositories found under every workspace root.

With a query, only repositories whose relative path contains it are shown.
--exact instead requires the query to equal the repository name or its
whole relative path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Query = args[0]
			}
			roots, err := a.roots(cmd.Context())
			if err != nil {
				return err
			}
			lines, _ := a.scanner().List(roots, opts)
			for _, line := range lines {
				fmt.Fprintln(a.stdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Exact, "exact", "e", false, "match the repository name or relative path exactly")
	cmd.Flags().BoolVarP(&opts.FullPath, "full-path", "p", false, "print absolute paths")
	cmd.Flags().BoolVar(&opts.Unique, "unique", false, "print repository names only")
	return cmd
}
