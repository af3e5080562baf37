package repo

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/tasuku43/ghqr/internal/domain/vcs"
	"github.com/tasuku43/ghqr/internal/infra/debuglog"
)

// Scanner walks workspace roots looking for checkout boundaries.
type Scanner struct {
	// Detector decides checkout boundaries. Defaults to vcs.FSDetector.
	Detector vcs.Detector
	// OnWarning receives every skipped, unreadable entry.
	OnWarning func(error)
}

// Repos yields every checkout under roots, in root order and then lexical
// path order. Symbolic links are followed, so a checkout reachable through an
// alias is yielded under both paths; links back into the current descent are
// skipped. A checkout's own contents are never visited. match, when non-nil, receives the slash-separated path
// relative to the root and filters what is yielded.
func (s Scanner) Repos(roots []string, match func(relPath string) bool) iter.Seq[Local] {
	return func(yield func(Local) bool) {
		for _, root := range roots {
			w := walker{scanner: s, root: root, match: match, yield: yield, ancestors: map[string]struct{}{}}
			if !w.walkRoot() {
				return
			}
		}
	}
}

// Scan collects Repos into a slice together with the warnings it hit.
func (s Scanner) Scan(roots []string, match func(relPath string) bool) ([]Local, []error) {
	var warnings []error
	onWarning := s.OnWarning
	s.OnWarning = func(err error) {
		warnings = append(warnings, err)
		if onWarning != nil {
			onWarning(err)
		}
	}
	var repos []Local
	for repo := range s.Repos(roots, match) {
		repos = append(repos, repo)
	}
	return repos, warnings
}

func (s Scanner) detector() vcs.Detector {
	if s.Detector == nil {
		return vcs.FSDetector{}
	}
	return s.Detector
}

func (s Scanner) warn(err error) {
	debuglog.LogWarn("scan", err.Error())
	if s.OnWarning != nil {
		s.OnWarning(err)
	}
}

type walker struct {
	scanner Scanner
	root    string
	match   func(string) bool
	yield   func(Local) bool
	// ancestors holds the resolved paths of the directories on the current
	// descent. A symlink back into one of them is a cycle; any other alias is
	// walked under its own name.
	ancestors map[string]struct{}
}

func (w *walker) walkRoot() bool {
	info, err := os.Stat(w.root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.scanner.warn(&AccessError{Path: w.root, Err: err})
		}
		return true
	}
	if !info.IsDir() {
		w.scanner.warn(&AccessError{Path: w.root, Err: errors.New("not a directory")})
		return true
	}
	realRoot, err := filepath.EvalSymlinks(w.root)
	if err != nil {
		realRoot = w.root
	}
	w.ancestors[realRoot] = struct{}{}
	return w.walk(w.root, realRoot, nil)
}

// walk returns false once the consumer stops iterating.
func (w *walker) walk(dir, realDir string, rel []string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.scanner.warn(&AccessError{Path: dir, Err: err})
		return true
	}
	for _, entry := range entries {
		name := entry.Name()
		if vcs.IsMarker(name) {
			continue
		}
		path := filepath.Join(dir, name)
		realPath := filepath.Join(realDir, name)

		switch {
		case entry.IsDir():
		case entry.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(path)
			if err != nil {
				w.scanner.warn(&AccessError{Path: path, Err: err})
				continue
			}
			if !info.IsDir() {
				continue
			}
			if realPath, err = filepath.EvalSymlinks(path); err != nil {
				w.scanner.warn(&AccessError{Path: path, Err: err})
				continue
			}
		default:
			continue
		}

		if _, cycle := w.ancestors[realPath]; cycle {
			continue
		}

		childRel := append(rel[:len(rel):len(rel)], name)
		if marker, ok := w.scanner.detector().Detect(path); ok {
			if len(childRel) < 2 {
				continue
			}
			if w.match != nil && !w.match(strings.Join(childRel, "/")) {
				continue
			}
			if !w.yield(Local{Root: w.root, RelPath: childRel, VCS: marker}) {
				return false
			}
			continue
		}
		w.ancestors[realPath] = struct{}{}
		more := w.walk(path, realPath, childRel)
		delete(w.ancestors, realPath)
		if !more {
			return false
		}
	}
	return true
}
