package gitcmd

import (
	"context"
	"strings"
)

const RootConfigKey = "ghq.root"

// ConfigRoots reads every ghq.root value from git config.
type ConfigRoots struct {
	Run Runner
}

func (c ConfigRoots) Name() string {
	return "git config " + RootConfigKey
}

// Roots returns the configured roots in git's precedence order. An unset
// key is not an error.
func (c ConfigRoots) Roots(ctx context.Context) ([]string, error) {
	run := c.Run
	if run == nil {
		run = Run
	}
	res, err := run(ctx, []string{"config", "--path", "--null", "--get-all", RootConfigKey}, Options{})
	if err != nil {
		if res.ExitCode == 1 {
			return nil, nil
		}
		return nil, err
	}
	var roots []string
	for _, value := range strings.Split(res.Stdout, "\x00") {
		if value = strings.TrimSpace(value); value != "" {
			roots = append(roots, value)
		}
	}
	return roots, nil
}
