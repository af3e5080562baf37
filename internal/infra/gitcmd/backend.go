package gitcmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/tasuku43/ghqr/internal/domain/vcs"
)

// Backend clones and pulls with the git binary.
type Backend struct {
	Run Runner
}

var _ vcs.Backend = Backend{}

func (b Backend) run() Runner {
	if b.Run == nil {
		return Run
	}
	return b.Run
}

// Exists reports whether path is present at all; any existing destination
// blocks a clone.
func (b Backend) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (b Backend) Clone(ctx context.Context, url, dest string, shallow bool) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &vcs.Error{Op: "git clone", Dir: dest, Err: err}
	}
	args := []string{"clone"}
	if shallow {
		args = append(args, "--depth", "1")
	}
	args = append(args, url, dest)
	res, err := b.run()(ctx, args, Options{ShowOutput: true})
	if err != nil {
		return &vcs.Error{Op: "git clone", Dir: dest, Stderr: res.Stderr, Err: err}
	}
	return nil
}

func (b Backend) Pull(ctx context.Context, dest string) error {
	res, err := b.run()(ctx, []string{"pull", "--ff-only"}, Options{Dir: dest, ShowOutput: true})
	if err != nil {
		return &vcs.Error{Op: "git pull", Dir: dest, Stderr: res.Stderr, Err: err}
	}
	return nil
}
