package repospec

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

const (
	DefaultProtocol = "https"
	DefaultHost     = "github.com"
	vcsSuffix       = ".git"
)

// Spec is a canonical repository identity.
//
// Name may span several slash-separated segments when the input addressed a
// path below the repository (github.com/owner/repo/sub/dir). CloneURL only
// ever points at owner/<first name segment>.
type Spec struct {
	Protocol string
	Host     string
	Owner    string
	Name     string
	CloneURL string
}

// Path returns host/owner/name with forward slashes.
func (s Spec) Path() string {
	return path.Join(s.Host, s.Owner, s.Name)
}

// RepoKey returns host/owner/repo, dropping any segments below the repository.
func (s Spec) RepoKey() string {
	return path.Join(s.Host, s.Owner, s.RepoName())
}

// RepoName returns the first segment of Name.
func (s Spec) RepoName() string {
	name, _, _ := strings.Cut(s.Name, "/")
	return name
}

// LocalPath joins Path onto root.
func (s Spec) LocalPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(s.Path()))
}

func (s Spec) String() string {
	return s.Path()
}

// Error reports an input that cannot be resolved to a repository identity.
type Error struct {
	Input  string
	Reason string
}

func (e *Error) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid repo spec: %s", e.Reason)
	}
	return fmt.Sprintf("invalid repo spec %q: %s", e.Input, e.Reason)
}

func specError(input, format string, args ...any) error {
	return &Error{Input: input, Reason: fmt.Sprintf(format, args...)}
}

func trimVCSSuffix(name string) string {
	return strings.TrimSuffix(name, vcsSuffix)
}
