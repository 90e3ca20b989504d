package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/toyz/apispec/internal/errors"
)

// Encode writes v to w as indented JSON or YAML
func Encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.WrapEncodingError(format, err)
		}
		return nil
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.WrapEncodingError(format, err)
		}
		if err := enc.Close(); err != nil {
			return errors.WrapEncodingError(format, err)
		}
		return nil
	default:
		return errors.Newf(errors.EncodingErrorCode, "unsupported format: %s", format).
			WithSuggestion("Use --format json or --format yaml")
	}
}

// WriteOutput encodes v to the file at path, or to stdout when path is "-"
func WriteOutput(stdout io.Writer, path, format string, v interface{}) error {
	if path == "-" || path == "" {
		return Encode(stdout, format, v)
	}

	outDir := filepath.Dir(path)
	fi, err := os.Stat(outDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WrapFileSystemError("write", path, fmt.Errorf("output directory %s does not exist", outDir)).
				WithSuggestion("Create the output directory first")
		}
		return errors.WrapFileSystemError("stat", outDir, err)
	}
	if !fi.IsDir() {
		return errors.Newf(errors.FileSystemErrorCode, "output path %s is not a directory", outDir)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return errors.WrapFileSystemError("create", path, err)
	}
	defer func() { _ = f.Close() }()

	return Encode(f, format, v)
}
