package vcs

import (
	"os"
	"path/filepath"
)

// Marker is a version-control metadata directory name.
type Marker string

const (
	Git        Marker = ".git"
	Subversion Marker = ".svn"
	Mercurial  Marker = ".hg"
	Darcs      Marker = "_darcs"
)

// Markers lists the recognized markers in detection order.
var Markers = []Marker{Git, Subversion, Mercurial, Darcs}

// IsMarker reports whether name is a recognized marker directory name.
func IsMarker(name string) bool {
	for _, m := range Markers {
		if string(m) == name {
			return true
		}
	}
	return false
}

// Name returns the VCS name for the marker (git, svn, hg, darcs).
func (m Marker) Name() string {
	switch m {
	case Git:
		return "git"
	case Subversion:
		return "svn"
	case Mercurial:
		return "hg"
	case Darcs:
		return "darcs"
	default:
		return ""
	}
}

// Detector decides whether a directory is the root of a checkout.
type Detector interface {
	Detect(dir string) (Marker, bool)
}

// FSDetector checks the local filesystem for marker subdirectories.
type FSDetector struct{}

// Detect returns the first marker that dir directly contains as a directory.
func (FSDetector) Detect(dir string) (Marker, bool) {
	for _, m := range Markers {
		info, err := os.Stat(filepath.Join(dir, string(m)))
		if err == nil && info.IsDir() {
			return m, true
		}
	}
	return "", false
}

// IsVCSRoot reports whether dir directly contains a marker subdirectory.
func IsVCSRoot(dir string) bool {
	_, ok := FSDetector{}.Detect(dir)
	return ok
}
