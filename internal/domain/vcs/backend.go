package vcs

import (
	"context"
	"fmt"
	"strings"
)

// Backend is the external version-control client.
type Backend interface {
	// Exists reports whether a checkout already lives at path.
	Exists(path string) bool
	Clone(ctx context.Context, url, dest string, shallow bool) error
	Pull(ctx context.Context, dest string) error
}

// Error is a failed clone or pull, carrying the tool's own message.
type Error struct {
	Op     string
	Dir    string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Dir == "" {
		return fmt.Sprintf("%s failed: %s", e.Op, msg)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Op, e.Dir, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}
