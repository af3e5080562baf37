package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tasuku43/ghqr/internal/infra/debuglog"
	"github.com/tasuku43/ghqr/internal/infra/output"
)

type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

type Options struct {
	Dir string
	// ShowOutput forwards git's output to the step under ctx.
	ShowOutput bool
}

// Runner runs a git subcommand. Run is the real implementation.
type Runner func(ctx context.Context, args []string, opts Options) (Result, error)

// subcommands lists what ghqr is allowed to ask git for, keyed by subcommand
// with the ghqr feature that needs it.
var subcommands = map[string]string{
	"clone":   "get",
	"pull":    "get --update",
	"config":  "root discovery",
	"version": "doctor",
}

func Run(ctx context.Context, args []string, opts Options) (Result, error) {
	if len(args) == 0 {
		return Result{ExitCode: -1}, errors.New("git command is required")
	}
	if _, ok := subcommands[args[0]]; !ok {
		err := fmt.Errorf("git subcommand %q is not allowed", args[0])
		return Result{Stderr: err.Error(), ExitCode: -1}, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = opts.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	trace := startTrace(ctx, args)
	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode(err)}
	finishTrace(trace, result)

	if opts.ShowOutput {
		output.LogLines(ctx, result.Stdout)
		output.LogLines(ctx, result.Stderr)
	}
	if err != nil {
		return result, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return result, nil
}

func startTrace(ctx context.Context, args []string) string {
	if !debuglog.Enabled() {
		return ""
	}
	trace := debuglog.NewTrace(ctx, "git")
	debuglog.LogCommand(trace, "git", args)
	return trace
}

func finishTrace(trace string, result Result) {
	if trace == "" {
		return
	}
	debuglog.LogOutput(trace, "stdout", result.Stdout)
	debuglog.LogOutput(trace, "stderr", result.Stderr)
	debuglog.LogExit(trace, result.ExitCode)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1
	}
	return exitErr.ExitCode()
}
