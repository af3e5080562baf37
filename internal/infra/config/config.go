package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	PathEnv  = "GHQR_CONFIG"
	FileName = "config.yaml"
)

type File struct {
	Roots []string `yaml:"roots"`
}

// UnmarshalYAML accepts `roots` as a list or a single string.
func (f *File) UnmarshalYAML(value *yaml.Node) error {
	var direct struct {
		Roots []string `yaml:"roots"`
	}
	if err := value.Decode(&direct); err == nil {
		f.Roots = direct.Roots
		return nil
	}
	var single struct {
		Roots string `yaml:"roots"`
	}
	if err := value.Decode(&single); err != nil {
		return err
	}
	if strings.TrimSpace(single.Roots) != "" {
		f.Roots = []string{single.Roots}
	}
	return nil
}

// DefaultPath returns $GHQR_CONFIG, else <user config dir>/ghqr/config.yaml.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(PathEnv)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ghqr", FileName), nil
}

// Load reads the config file. A missing file yields an empty File.
func Load(path string) (File, error) {
	if path == "" {
		return File{}, fmt.Errorf("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, nil
		}
		return File{}, err
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return file, nil
}

// Source exposes the file's roots as a workspace root source.
type Source struct {
	Path string
}

func (s Source) Name() string {
	return s.Path
}

func (s Source) Roots(context.Context) ([]string, error) {
	file, err := Load(s.Path)
	if err != nil {
		return nil, err
	}
	return file.Roots, nil
}
