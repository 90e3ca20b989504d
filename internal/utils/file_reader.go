package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
)

// FileReader parses Go files and reads go.mod contents, caching both until the file changes
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *FileCache[*ast.File]
	contentCache *FileCache[[]byte]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewFileCache[*ast.File](),
		contentCache: NewFileCache[[]byte](),
	}
}

// ParseGoFile parses a Go source file with comments
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath := filepath.Clean(filePath)

	if cached, ok := fr.astCache.Get(cleanPath); ok {
		return cached, nil
	}

	file, err := parser.ParseFile(fr.fileSet, cleanPath, nil, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go file %s: %w", filepath.Base(cleanPath), err)
	}

	// a file removed between parse and stat is simply not cached
	_ = fr.astCache.Put(cleanPath, file)
	return file, nil
}

// ParseGoSource parses Go source code held in memory
func (fr *FileReader) ParseGoSource(filename, source string) (*ast.File, error) {
	file, err := parser.ParseFile(fr.fileSet, filename, source, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go source %s: %w", filename, err)
	}
	return file, nil
}

// ReadFile returns the contents of a file
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	cleanPath := filepath.Clean(filePath)

	if cached, ok := fr.contentCache.Get(cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, err
	}

	_ = fr.contentCache.Put(cleanPath, content)
	return content, nil
}

// FileSet returns the token.FileSet shared by every parsed file
func (fr *FileReader) FileSet() *token.FileSet {
	return fr.fileSet
}

// CachedFiles reports how many parsed files and raw contents are cached
func (fr *FileReader) CachedFiles() (astFiles, contentFiles int) {
	return fr.astCache.Len(), fr.contentCache.Len()
}
