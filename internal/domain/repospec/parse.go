package repospec

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// Context carries what relative specifiers are resolved against.
type Context struct {
	// Cwd is the directory "./" and "../" specifiers start from.
	Cwd string
	// Root is the workspace root relative specifiers must live under.
	// When empty, Roots[0] is used.
	Root  string
	Roots []string
}

var scpPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+@([A-Za-z0-9.-]+):(.+)$`)

// Parse resolves input into a canonical Spec.
//
// Accepted forms, tried in order: absolute URLs (https://host/owner/repo.git),
// scp-style ssh remotes (git@host:owner/repo.git), file URLs ending in
// host/owner/repo, relative paths starting with "." or ".." that point below
// a workspace root, and shorthand tokens (repo, owner/repo, host/owner/repo...).
func Parse(input string, pctx Context) (Spec, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Spec{}, &Error{Reason: "repo spec is empty"}
	}

	if strings.Contains(trimmed, "://") {
		return parseURL(trimmed)
	}
	if m := scpPattern.FindStringSubmatch(trimmed); m != nil {
		return parseRemotePath(trimmed, "ssh", m[1], m[2])
	}
	if isRelativePath(trimmed) {
		rel, err := relativeToRoot(trimmed, pctx)
		if err != nil {
			return Spec{}, err
		}
		return parseShorthand(trimmed, rel)
	}
	return parseShorthand(trimmed, trimmed)
}

func parseURL(input string) (Spec, error) {
	u, err := url.Parse(input)
	if err != nil {
		return Spec{}, specError(input, "cannot parse url: %v", err)
	}
	if u.Scheme == "" {
		return Spec{}, specError(input, "url scheme is required")
	}
	if u.Scheme == "file" {
		return parseFileURL(input, u)
	}
	if u.Host == "" {
		return Spec{}, specError(input, "cannot retrieve host information")
	}
	return parseRemotePath(input, u.Scheme, u.Host, u.Path)
}

// parseFileURL infers <host>/<owner>/<repo> from the tail of a local mirror path.
func parseFileURL(input string, u *url.URL) (Spec, error) {
	parts := splitSegments(u.Path)
	if len(parts) < 3 {
		return Spec{}, specError(input, "file url must end with <host>/<owner>/<repo>")
	}
	tail := parts[len(parts)-3:]
	name := trimVCSSuffix(tail[2])
	if name == "" {
		return Spec{}, specError(input, "repository name is empty")
	}
	return Spec{
		Protocol: u.Scheme,
		Host:     tail[0],
		Owner:    tail[1],
		Name:     name,
		CloneURL: input,
	}, nil
}

func parseRemotePath(input, protocol, host, remotePath string) (Spec, error) {
	parts := splitSegments(remotePath)
	if len(parts) < 2 {
		return Spec{}, specError(input, "url path must contain <owner>/<repo>")
	}
	name := trimVCSSuffix(parts[1])
	if name == "" {
		return Spec{}, specError(input, "repository name is empty")
	}
	return Spec{
		Protocol: protocol,
		Host:     host,
		Owner:    parts[0],
		Name:     name,
		CloneURL: input,
	}, nil
}

func parseShorthand(input, token string) (Spec, error) {
	segments := strings.Split(strings.TrimSuffix(filepath.ToSlash(token), "/"), "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return Spec{}, specError(input, "path segments must not be empty or relative")
		}
	}

	spec := Spec{Protocol: DefaultProtocol}
	switch len(segments) {
	case 1:
		name := trimVCSSuffix(segments[0])
		spec.Host, spec.Owner, spec.Name = DefaultHost, name, name
	case 2:
		spec.Host, spec.Owner, spec.Name = DefaultHost, segments[0], trimVCSSuffix(segments[1])
	default:
		rest := append([]string(nil), segments[2:]...)
		rest[len(rest)-1] = trimVCSSuffix(rest[len(rest)-1])
		spec.Host, spec.Owner, spec.Name = segments[0], segments[1], strings.Join(rest, "/")
	}
	if spec.Owner == "" || spec.Name == "" || strings.HasSuffix(spec.Name, "/") {
		return Spec{}, specError(input, "owner/repo cannot be empty")
	}

	spec.CloneURL = fmt.Sprintf("%s://%s/%s/%s%s", spec.Protocol, spec.Host, spec.Owner, spec.RepoName(), vcsSuffix)
	if _, err := url.Parse(spec.CloneURL); err != nil {
		return Spec{}, specError(input, "cannot build clone url: %v", err)
	}
	return spec, nil
}

func isRelativePath(input string) bool {
	first, _, _ := strings.Cut(filepath.ToSlash(input), "/")
	return first == "." || first == ".."
}

// relativeToRoot resolves a "./" or "../" specifier against the working
// directory and returns it as a slash path below the workspace root.
func relativeToRoot(input string, pctx Context) (string, error) {
	if strings.TrimSpace(pctx.Cwd) == "" {
		return "", specError(input, "working directory is required to resolve a relative path")
	}
	root := pctx.Root
	if root == "" && len(pctx.Roots) > 0 {
		root = pctx.Roots[0]
	}
	if root == "" {
		return "", specError(input, "workspace root is required to resolve a relative path")
	}

	abs, err := filepath.Abs(filepath.Join(pctx.Cwd, filepath.FromSlash(input)))
	if err != nil {
		return "", specError(input, "cannot resolve path: %v", err)
	}
	rel, ok := relUnder(root, abs)
	if !ok {
		realRoot, rootErr := filepath.EvalSymlinks(root)
		realAbs, absErr := filepath.EvalSymlinks(abs)
		if rootErr == nil && absErr == nil {
			rel, ok = relUnder(realRoot, realAbs)
		}
	}
	if !ok {
		return "", specError(input, "%s is not under the root %s", abs, root)
	}
	if strings.Count(rel, "/") < 2 {
		return "", specError(input, "path must point at <host>/<owner>/<repo> under %s", root)
	}
	return rel, nil
}

func relUnder(root, target string) (string, bool) {
	rel, err := filepath.Rel(filepath.Clean(root), target)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || filepath.IsAbs(rel) {
		return "", false
	}
	return rel, true
}

func splitSegments(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
