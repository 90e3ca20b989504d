package utils

import (
	"fmt"
	"go/build"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirectoryFilter decides whether a directory is descended into
type DirectoryFilter func(path string, entry os.DirEntry) bool

// IsGoSourceFile reports whether name is a non-test Go file
func IsGoSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

// DefaultDirectoryFilter skips directories the go tool ignores plus common build output
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, entry os.DirEntry) bool {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// GoFiles returns the non-test Go files of dir that build for the current
// platform, sorted by file name. Files excluded by //go:build lines or by
// GOOS/GOARCH name suffixes are skipped the way the go tool skips them.
func GoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	return buildableGoFiles(dir, entries)
}

func buildableGoFiles(dir string, entries []os.DirEntry) ([]string, error) {
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsGoSourceFile(entry.Name()) {
			continue
		}
		match, err := build.Default.MatchFile(dir, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("check build constraints of %s: %w", entry.Name(), err)
		}
		if match {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// PackageDirs walks root and returns every directory holding Go source files.
// When recursive is false only root itself is considered.
func PackageDirs(root string, recursive bool, filter DirectoryFilter) ([]string, error) {
	if filter == nil {
		filter = DefaultDirectoryFilter()
	}

	var dirs []string
	visited := make(map[string]bool)

	var scan func(dir string) error
	scan = func(dir string) error {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", dir, err)
		}
		if visited[absDir] {
			return nil
		}
		visited[absDir] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read directory %s: %w", dir, err)
		}

		files, err := buildableGoFiles(dir, entries)
		if err != nil {
			return err
		}
		if len(files) > 0 {
			dirs = append(dirs, dir)
		}

		if !recursive {
			return nil
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			sub := filepath.Join(dir, entry.Name())
			if !filter(sub, entry) {
				continue
			}
			if err := scan(sub); err != nil {
				return err
			}
		}
		return nil
	}

	if err := scan(root); err != nil {
		return nil, err
	}
	return dirs, nil
}
