package repo

import "strings"

type ListOptions struct {
	Query string
	// Exact matches the query against the repository name or its whole
	// relative path instead of any substring of the path.
	Exact bool
	// Unique prints only the repository name.
	Unique   bool
	FullPath bool
}

// Matcher returns the path predicate for a list query; nil matches everything.
func Matcher(query string, exact bool) func(relPath string) bool {
	if query == "" {
		return nil
	}
	if exact {
		return func(relPath string) bool {
			if relPath == query {
				return true
			}
			return lastSegment(relPath) == query
		}
	}
	return func(relPath string) bool {
		return strings.Contains(relPath, query)
	}
}

// List returns the display lines for every checkout under roots matching opts.
// Checkouts with the same name under different roots are all reported.
func (s Scanner) List(roots []string, opts ListOptions) ([]string, []error) {
	repos, warnings := s.Scan(roots, Matcher(opts.Query, opts.Exact))
	lines := make([]string, 0, len(repos))
	for _, repo := range repos {
		lines = append(lines, FormatLine(repo, opts))
	}
	return lines, warnings
}

func FormatLine(repo Local, opts ListOptions) string {
	switch {
	case opts.Unique:
		return repo.Name()
	case opts.FullPath:
		return repo.FullPath()
	default:
		return repo.Path()
	}
}

func lastSegment(relPath string) string {
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		return relPath[i+1:]
	}
	return relPath
}
