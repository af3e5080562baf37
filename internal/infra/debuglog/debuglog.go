package debuglog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const EnvVar = "GHQR_DEBUG"

type loggerState struct {
	mu      sync.Mutex
	enabled atomic.Bool
	writer  *os.File
	pid     int
	// run is the ghqr subcommand that opened the log.
	run string
}

var state loggerState
var traceSeq uint64

type scopeKey struct{}

// DefaultDir returns <user cache dir>/ghqr/logs.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "ghqr", "logs"), nil
}

// Enable starts appending to debug-YYYYMMDD.log in logDir. Every line is
// tagged with run, the subcommand being executed.
func Enable(logDir, run string) error {
	if strings.TrimSpace(logDir) == "" {
		return fmt.Errorf("log directory is required")
	}
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("create debug log dir: %w", err)
	}
	name := fmt.Sprintf("debug-%s.log", time.Now().Format("20060102"))
	file, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open debug log file: %w", err)
	}
	state.mu.Lock()
	if state.writer != nil {
		_ = state.writer.Close()
	}
	state.writer = file
	state.pid = os.Getpid()
	state.run = strings.TrimSpace(run)
	state.enabled.Store(true)
	state.mu.Unlock()
	return nil
}

func Close() error {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.enabled.Store(false)
	if state.writer == nil {
		return nil
	}
	err := state.writer.Close()
	state.writer = nil
	return err
}

func Enabled() bool {
	return state.enabled.Load()
}

// WithScope tags traces started under ctx with scope, usually the
// repository a parallel get is working on.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, strings.TrimSpace(scope))
}

// NewTrace returns a process-unique trace id: prefix[@scope]:seq.
func NewTrace(ctx context.Context, prefix string) string {
	seq := atomic.AddUint64(&traceSeq, 1)
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "cmd"
	}
	if scope, _ := ctx.Value(scopeKey{}).(string); scope != "" {
		return fmt.Sprintf("%s@%s:%x", prefix, scope, seq)
	}
	return fmt.Sprintf("%s:%x", prefix, seq)
}

func LogCommand(trace, name string, args []string) {
	logLine(trace, "cmd", strings.TrimSpace(name+" "+strings.Join(args, " ")), "", nil)
}

// LogOutput records each non-blank line of text under kind (stdout or stderr).
func LogOutput(trace, kind, text string) {
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			logLine(trace, kind, "", line, nil)
		}
	}
}

func LogExit(trace string, code int) {
	logLine(trace, "exit", "", "", &code)
}

// LogWarn records a recovered problem (skipped directory, ignored config source).
func LogWarn(trace, text string) {
	logLine(trace, "warn", "", text, nil)
}

func logLine(trace, kind, cmd, line string, code *int) {
	if !Enabled() {
		return
	}
	if trace = strings.TrimSpace(trace); trace == "" {
		trace = "unknown"
	}
	ts := time.Now().Format(time.RFC3339Nano)
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.writer == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ts=%s pid=%d", ts, state.pid)
	if state.run != "" {
		fmt.Fprintf(&b, " run=%s", state.run)
	}
	fmt.Fprintf(&b, " trace=%s kind=%s", trace, kind)
	if cmd != "" {
		fmt.Fprintf(&b, " cmd=%q", cmd)
	}
	if line != "" {
		fmt.Fprintf(&b, " line=%q", line)
	}
	if code != nil {
		fmt.Fprintf(&b, " code=%d", *code)
	}
	b.WriteByte('\n')
	_, _ = state.writer.WriteString(b.String())
}
