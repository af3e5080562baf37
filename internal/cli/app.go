package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tasuku43/ghqr/internal/app/doctor"
	"github.com/tasuku43/ghqr/internal/core/paths"
	"github.com/tasuku43/ghqr/internal/domain/repo"
	"github.com/tasuku43/ghqr/internal/domain/vcs"
	"github.com/tasuku43/ghqr/internal/infra/config"
	"github.com/tasuku43/ghqr/internal/infra/debuglog"
	"github.com/tasuku43/ghqr/internal/infra/gitcmd"
)

// App holds the process collaborators the commands read from. Nil fields
// fall back to the real process environment.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Getenv func(string) string
	Getwd  func() (string, error)

	// Sources are consulted for workspace roots when GHQ_ROOT is unset.
	Sources  []paths.Source
	Backend  vcs.Backend
	Detector vcs.Detector
	Doctor   doctor.Options
}

// NewApp wires the App to the process: standard streams, environment, the
// git binary, and the git config and YAML root sources.
func NewApp() *App {
	sources := []paths.Source{gitcmd.ConfigRoots{}}
	if path, err := config.DefaultPath(); err == nil {
		sources = append(sources, config.Source{Path: path})
	}
	return &App{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Getwd:   os.Getwd,
		Sources: sources,
		Backend: gitcmd.Backend{},
	}
}

// Run is the CLI entrypoint.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewApp().Execute(ctx, os.Args[1:])
}

// Execute runs one command line.
func (a *App) Execute(ctx context.Context, args []string) error {
	defer func() { _ = debuglog.Close() }()
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin())
	cmd.SetOut(a.stdout())
	cmd.SetErr(a.stderr())
	return cmd.ExecuteContext(ctx)
}

func (a *App) rootCommand() *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:           "ghqr",
		Short:         "Manage local clones of remote repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !debug && !envBool(a.getenv(debuglog.EnvVar)) {
				return nil
			}
			dir, err := debuglog.DefaultDir()
			if err != nil {
				return err
			}
			return debuglog.Enable(dir, cmd.Name())
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "write a debug log under the user cache dir (also $"+debuglog.EnvVar+")")
	cmd.AddCommand(
		a.listCommand(),
		a.rootsCommand(),
		a.getCommand(),
		a.pathCommand(),
		a.doctorCommand(),
		a.versionCommand(),
	)
	return cmd
}

func (a *App) roots(ctx context.Context) ([]string, error) {
	return paths.ResolveRoots(ctx, a.getenv, a.Sources...)
}

func (a *App) scanner() repo.Scanner {
	return repo.Scanner{
		Detector: a.Detector,
		OnWarning: func(err error) {
			fmt.Fprintf(a.stderr(), "warning: %v\n", err)
		},
	}
}

func (a *App) backend() vcs.Backend {
	if a.Backend == nil {
		return gitcmd.Backend{}
	}
	return a.Backend
}

func (a *App) stdin() io.Reader {
	if a.Stdin == nil {
		return os.Stdin
	}
	return a.Stdin
}

func (a *App) stdout() io.Writer {
	if a.Stdout == nil {
		return os.Stdout
	}
	return a.Stdout
}

func (a *App) stderr() io.Writer {
	if a.Stderr == nil {
		return os.Stderr
	}
	return a.Stderr
}

func (a *App) getenv(key string) string {
	if a.Getenv == nil {
		return os.Getenv(key)
	}
	return a.Getenv(key)
}

func (a *App) getwd() (string, error) {
	if a.Getwd == nil {
		return os.Getwd()
	}
	return a.Getwd()
}

func envBool(val string) bool {
	val = strings.TrimSpace(val)
	if val == "" {
		return false
	}
	switch strings.ToLower(val) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// isTerminal reports whether stream is a file attached to a terminal.
func isTerminal(stream any) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
