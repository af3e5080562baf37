package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/tasuku43/ghqr/internal/domain/repospec"
	"github.com/tasuku43/ghqr/internal/domain/vcs"
	"github.com/tasuku43/ghqr/internal/infra/debuglog"
	"github.com/tasuku43/ghqr/internal/infra/output"
)

type Action string

const (
	ActionCloned  Action = "cloned"
	ActionUpdated Action = "updated"
	ActionExists  Action = "exists"
)

type GetOptions struct {
	// Update pulls checkouts that already exist instead of leaving them alone.
	Update  bool
	Shallow bool
	// Parallel bounds concurrent clones in GetAll; values below 1 mean 1.
	Parallel int
}

type GetResult struct {
	Spec   repospec.Spec
	Dest   string
	Action Action
}

// Getter clones missing repositories into a workspace root.
type Getter struct {
	Backend vcs.Backend
}

// Dest returns where spec is checked out under root. Segments below the
// repository itself are dropped: they address a directory inside the clone.
func Dest(root string, spec repospec.Spec) string {
	return filepath.Join(root, filepath.FromSlash(spec.RepoKey()))
}

// Get clones spec under root, or pulls it when it exists and opts.Update is set.
func (g Getter) Get(ctx context.Context, spec repospec.Spec, root string, opts GetOptions) (GetResult, error) {
	if g.Backend == nil {
		return GetResult{}, fmt.Errorf("vcs backend is required")
	}
	if root == "" {
		return GetResult{}, fmt.Errorf("root directory is required")
	}
	dest := Dest(root, spec)
	result := GetResult{Spec: spec, Dest: dest}

	if g.Backend.Exists(dest) {
		if !opts.Update {
			output.Logf(ctx, "already exists: %s", dest)
			result.Action = ActionExists
			return result, nil
		}
		output.Logf(ctx, "$ git pull --ff-only (%s)", dest)
		if err := g.Backend.Pull(ctx, dest); err != nil {
			return result, err
		}
		result.Action = ActionUpdated
		return result, nil
	}

	output.Logf(ctx, "$ git clone %s %s", spec.CloneURL, dest)
	if err := g.Backend.Clone(ctx, spec.CloneURL, dest, opts.Shallow); err != nil {
		return result, err
	}
	result.Action = ActionCloned
	return result, nil
}

// GetAll runs Get for every spec, at most opts.Parallel at a time. Specs that
// share a destination are fetched once. Every spec is attempted; failures are
// joined into the returned error and their results are left out. With more
// than one worker each spec's step is printed as one block once it finishes.
func (g Getter) GetAll(ctx context.Context, specs []repospec.Spec, root string, opts GetOptions) ([]GetResult, error) {
	unique := make([]repospec.Spec, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		dest := Dest(root, spec)
		if _, ok := seen[dest]; ok {
			continue
		}
		seen[dest] = struct{}{}
		unique = append(unique, spec)
	}

	limit := opts.Parallel
	if limit < 1 {
		limit = 1
	}
	results := make([]GetResult, len(unique))
	errs := make([]error, len(unique))
	var eg errgroup.Group
	eg.SetLimit(limit)
	for i, spec := range unique {
		eg.Go(func() error {
			title := fmt.Sprintf("get %s", spec.RepoKey())
			sctx := debuglog.WithScope(ctx, spec.RepoKey())
			if limit > 1 {
				var group *output.Group
				sctx, group = output.Deferred(sctx, title)
				defer group.Flush()
			} else {
				output.Step(title)
			}
			res, err := g.Get(sctx, spec, root, opts)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", spec.RepoKey(), err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = eg.Wait()

	done := make([]GetResult, 0, len(unique))
	for i := range unique {
		if errs[i] == nil {
			done = append(done, results[i])
		}
	}
	return done, errors.Join(errs...)
}
