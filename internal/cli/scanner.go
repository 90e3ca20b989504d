package cli

import (
	"path/filepath"
	"strings"

	"github.com/toyz/apispec/internal/errors"
	"github.com/toyz/apispec/internal/utils"
)

// DirectoryScanner handles recursive directory scanning for Go packages
type DirectoryScanner struct {
	filter utils.DirectoryFilter
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		filter: utils.DefaultDirectoryFilter(),
	}
}

// ScanDirectories returns every directory that contains Go files.
// Supports Go-style patterns like "./..." for recursive scanning.
// Results keep argument order and are deduplicated.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		base, recursive := splitPattern(pattern)

		absBase, err := filepath.Abs(base)
		if err != nil {
			return nil, errors.WrapFileSystemError("resolve", base, err)
		}

		found, err := utils.PackageDirs(absBase, recursive, s.filter)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", base, err).
				WithSuggestion("Check that the directory exists and is readable")
		}

		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}

	return dirs, nil
}

func splitPattern(pattern string) (base string, recursive bool) {
	if pattern == "..." {
		return ".", true
	}
	if strings.HasSuffix(pattern, "/...") {
		base = strings.TrimSuffix(pattern, "/...")
		if base == "" {
			base = "."
		}
		return base, true
	}
	return pattern, false
}
