package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasuku43/ghqr/internal/domain/repo"
	"github.com/tasuku43/ghqr/internal/ui"
)

func (a *App) pathCommand() *cobra.Command {
	var exact, first, noPrompt bool
	cmd := &cobra.Command{
		Use:   "path [query]",
		Short: "Print the full path of a local repository",
		Long: `Print the full path of the repository matching query.

When several repositories match, an interactive picker is shown on a
terminal. --first takes the first match in lookup order instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			roots, err := a.roots(cmd.Context())
			if err != nil {
				return err
			}

			var found []repo.Local
			for local := range a.scanner().Repos(roots, repo.Matcher(query, exact)) {
				found = append(found, local)
				if first {
					break
				}
			}

			switch len(found) {
			case 0:
				if query == "" {
					return fmt.Errorf("no repositories found")
				}
				return fmt.Errorf("no repository matches %q", query)
			case 1:
				fmt.Fprintln(a.stdout(), found[0].FullPath())
				return nil
			}

			if noPrompt || !isTerminal(a.stdin()) || !isTerminal(a.stderr()) {
				return fmt.Errorf("%d repositories match %q (use --first or a narrower query)", len(found), query)
			}
			choices := make([]ui.PromptChoice, 0, len(found))
			for _, local := range found {
				choices = append(choices, ui.PromptChoice{
					Label: fmt.Sprintf("%s (%s)", local.Path(), local.Root),
					Value: local.FullPath(),
				})
			}
			selected, err := ui.PromptChoiceSelect("ghqr path", "repository", choices, ui.DefaultTheme(), true, a.stdin(), a.stderr())
			if err != nil {
				return err
			}
			selected = strings.TrimSpace(selected)
			if selected == "" {
				return fmt.Errorf("repository is required")
			}
			fmt.Fprintln(a.stdout(), selected)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&exact, "exact", "e", false, "match the repository name or relative path exactly")
	cmd.Flags().BoolVar(&first, "first", false, "print the first match without prompting")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "fail instead of prompting when several repositories match")
	return cmd
}
