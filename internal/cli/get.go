package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasuku43/ghqr/internal/core/paths"
	"github.com/tasuku43/ghqr/internal/domain/repo"
	"github.com/tasuku43/ghqr/internal/domain/repospec"
	"github.com/tasuku43/ghqr/internal/infra/output"
	"github.com/tasuku43/ghqr/internal/ui"
)

func (a *App) getCommand() *cobra.Command {
	var opts repo.GetOptions
	var rootFlag string
	cmd := &cobra.Command{
		Use:   "get <repo>...",
		Short: "Clone repositories into the workspace root",
		Long: `Clone each repository into <root>/<host>/<owner>/<repo>.

A repository may be given as a URL (https://github.com/owner/repo.git),
an scp-style remote (git@github.com:owner/repo.git), a shorthand
(repo, owner/repo, host/owner/repo) or a relative path below the root.
Existing checkouts are left alone unless --update is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			roots, err := a.roots(ctx)
			if err != nil {
				return err
			}
			root := paths.PrimaryRoot(roots)
			if strings.TrimSpace(rootFlag) != "" {
				if root, err = resolveRootFlag(rootFlag); err != nil {
					return err
				}
			}
			cwd, err := a.getwd()
			if err != nil {
				return fmt.Errorf("resolve working directory: %w", err)
			}

			specs, err := parseSpecs(args, repospec.Context{Cwd: cwd, Root: root, Roots: roots})
			if err != nil {
				return err
			}

			renderer := ui.NewRenderer(a.stdout(), ui.DefaultTheme(), isTerminal(a.stdout()))
			renderer.Header("ghqr get")
			renderer.Blank()
			renderer.Section("Steps")
			output.SetStepLogger(renderer)
			defer output.SetStepLogger(nil)

			results, getErr := repo.Getter{Backend: a.backend()}.GetAll(ctx, specs, root, opts)

			renderer.Blank()
			renderer.Section("Result")
			for _, result := range results {
				renderer.Result(fmt.Sprintf("%s %s", result.Action, result.Dest))
			}
			return getErr
		},
	}
	cmd.Flags().BoolVarP(&opts.Update, "update", "u", false, "pull repositories that are already cloned")
	cmd.Flags().BoolVar(&opts.Shallow, "shallow", false, "clone with --depth 1")
	cmd.Flags().StringVar(&rootFlag, "root", "", "clone under this directory instead of the primary root")
	cmd.Flags().IntVarP(&opts.Parallel, "parallel", "P", 1, "number of repositories fetched at once")
	return cmd
}

// parseSpecs parses every argument before anything is fetched so a typo
// aborts the whole run.
func parseSpecs(args []string, pctx repospec.Context) ([]repospec.Spec, error) {
	specs := make([]repospec.Spec, 0, len(args))
	var errs []error
	for _, arg := range args {
		spec, err := repospec.Parse(arg, pctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		specs = append(specs, spec)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return specs, nil
}

func resolveRootFlag(value string) (string, error) {
	expanded, err := paths.ExpandHome(strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve --root %s: %w", value, err)
	}
	return abs, nil
}
