package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	Indent       = "  "
	StepPrefix   = "•"
	LogConnector = "└─"
)

type StepLogger interface {
	Step(text string)
	Log(text string)
	LogOutput(text string)
}

var (
	mu         sync.Mutex
	stepLogger StepLogger
	fallback   io.Writer = os.Stdout
)

func SetStepLogger(logger StepLogger) {
	mu.Lock()
	stepLogger = logger
	mu.Unlock()
}

type lineKind int

const (
	kindLog lineKind = iota
	kindOutput
)

type heldLine struct {
	kind lineKind
	text string
}

// Group holds the lines of one step so concurrent steps print as blocks.
type Group struct {
	title string
	mu    sync.Mutex
	lines []heldLine
	done  bool
}

type groupKey struct{}

// Deferred returns a context whose Log* calls are held by the returned
// Group until Flush.
func Deferred(ctx context.Context, title string) (context.Context, *Group) {
	g := &Group{title: title}
	return context.WithValue(ctx, groupKey{}, g), g
}

// Flush writes the step title and its held lines in one block. Later calls
// are no-ops.
func (g *Group) Flush() {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return
	}
	g.done = true
	lines := g.lines
	g.lines = nil
	g.mu.Unlock()

	mu.Lock()
	defer mu.Unlock()
	writeStep(g.title)
	for _, line := range lines {
		writeLine(line)
	}
}

func (g *Group) hold(line heldLine) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return false
	}
	g.lines = append(g.lines, line)
	return true
}

func groupFrom(ctx context.Context) *Group {
	if ctx == nil {
		return nil
	}
	g, _ := ctx.Value(groupKey{}).(*Group)
	return g
}

// Step starts a new step immediately. Safe for concurrent use.
func Step(text string) {
	mu.Lock()
	defer mu.Unlock()
	writeStep(text)
}

func Log(ctx context.Context, text string) {
	emit(ctx, heldLine{kind: kindLog, text: text})
}

func Logf(ctx context.Context, format string, args ...any) {
	Log(ctx, fmt.Sprintf(format, args...))
}

func LogOutput(ctx context.Context, text string) {
	emit(ctx, heldLine{kind: kindOutput, text: text})
}

func LogLines(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		LogOutput(ctx, line)
	}
}

func LogOutputPrefix() string {
	spaces := utf8.RuneCountInString(LogConnector) + 1
	return Indent + Indent + strings.Repeat(" ", spaces)
}

func emit(ctx context.Context, line heldLine) {
	if g := groupFrom(ctx); g != nil && g.hold(line) {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	writeLine(line)
}

// writeStep and writeLine expect mu to be held.
func writeStep(text string) {
	if stepLogger != nil {
		stepLogger.Step(text)
		return
	}
	fmt.Fprintf(fallback, "%s%s %s\n", Indent, StepPrefix, text)
}

func writeLine(line heldLine) {
	switch line.kind {
	case kindOutput:
		if stepLogger != nil {
			stepLogger.LogOutput(line.text)
			return
		}
		fmt.Fprintf(fallback, "%s%s\n", LogOutputPrefix(), line.text)
	default:
		if stepLogger != nil {
			stepLogger.Log(line.text)
			return
		}
		fmt.Fprintf(fallback, "%s%s %s\n", Indent+Indent, LogConnector, line.text)
	}
}
