package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/toyz/apispec/internal/errors"
	"github.com/toyz/apispec/internal/models"
	"github.com/toyz/apispec/internal/parser"
	"github.com/toyz/apispec/internal/utils"
	"github.com/toyz/apispec/pkg/apispec"
)

// Document is the serialized description of every selected type in a module
type Document struct {
	Module string                    `json:"module" yaml:"module"`
	Types  []apispec.TypeDescription `json:"types" yaml:"types"`
}

// DocumentSummary counts what a run discovered
type DocumentSummary struct {
	Module          string
	PackagesScanned int
	FilesParsed     int
	TypesDescribed  int
	APIMethods      int
	Duration        time.Duration
}

// Documenter coordinates scanning, parsing and describing a module
type Documenter struct {
	scanner     *DirectoryScanner
	reader      *utils.FileReader
	gomod       *utils.GoModParser
	parser      parser.AnnotationParser
	diagnostics *utils.DiagnosticSystem
	summary     DocumentSummary
}

// NewDocumenter creates a documenter reporting through diagnostics
func NewDocumenter(diagnostics *utils.DiagnosticSystem) *Documenter {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	reader := utils.NewFileReader()
	return &Documenter{
		scanner:     NewDirectoryScanner(),
		reader:      reader,
		gomod:       utils.NewGoModParser(reader),
		parser:      parser.NewParserWithReader(reader),
		diagnostics: diagnostics,
	}
}

// Summary returns the counts of the last run
func (d *Documenter) Summary() DocumentSummary {
	return d.summary
}

// BuildCatalog scans the configured directories and parses each package.
// Annotation errors from every package are reported together.
func (d *Documenter) BuildCatalog(cfg Config) (*models.Catalog, error) {
	start := time.Now()
	d.summary = DocumentSummary{}

	d.diagnostics.Debug("Scanning directories: %v", cfg.Directories)
	dirs, err := d.scanner.ScanDirectories(cfg.Directories)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, errors.New(errors.FileSystemErrorCode, "no Go packages found in specified directories").
			WithContext("directories", cfg.Directories).
			WithSuggestion("Ensure the directories contain Go files or use the './...' pattern")
	}

	mod, err := d.resolveModule(dirs[0], cfg.ModuleName)
	if err != nil {
		return nil, err
	}
	d.diagnostics.Verbose("Resolved module %s at %s", mod.Path, mod.Dir)

	d.diagnostics.PhaseHeader("Parsing packages")
	d.diagnostics.Indent()
	defer d.diagnostics.Unindent()

	catalog := models.NewCatalog(mod.Path)
	failures := errors.NewMultipleErrors()
	for _, dir := range dirs {
		importPath, err := mod.ImportPath(dir)
		if err != nil {
			failures.Add(errors.WrapModuleError(dir, err))
			continue
		}

		pkg, err := d.parser.ParseDirectory(dir)
		if err != nil {
			failures.Add(errors.WrapParseError(fmt.Sprintf("package %s", importPath), err).
				WithContext("dir", dir))
			continue
		}
		pkg.SetImportPath(importPath)
		catalog.Add(pkg)

		d.diagnostics.PhaseItem("%s (%d types)", importPath, len(pkg.Types))
	}

	d.summary.Module = mod.Path
	d.summary.PackagesScanned = len(dirs)
	d.summary.FilesParsed, _ = d.reader.CachedFiles()
	d.summary.Duration = time.Since(start)

	if err := failures.ErrorOrNil(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Describe builds the document for a catalog. Unless all is set, types with
// neither a description nor an API method are left out.
func (d *Documenter) Describe(catalog *models.Catalog, all bool) *Document {
	doc := &Document{
		Module: catalog.Module,
		Types:  make([]apispec.TypeDescription, 0),
	}

	for _, t := range catalog.Types(!all) {
		desc := apispec.New(t).Describe()
		d.summary.APIMethods += len(desc.Methods)
		doc.Types = append(doc.Types, desc)
	}
	d.summary.TypesDescribed = len(doc.Types)

	return doc
}

// Run builds the catalog and the document in one step
func (d *Documenter) Run(cfg Config) (*models.Catalog, *Document, error) {
	catalog, err := d.BuildCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	return catalog, d.Describe(catalog, cfg.All), nil
}

// resolveModule finds the go.mod owning dir. A custom module name replaces
// the declared path; without a go.mod it is rooted at the working directory.
func (d *Documenter) resolveModule(dir, custom string) (*utils.ModuleInfo, error) {
	mod, err := d.gomod.FindModule(dir)
	if err == nil {
		if custom != "" {
			d.diagnostics.Debug("Using custom module name: %s", custom)
			mod.Path = custom
		}
		return mod, nil
	}

	if custom == "" {
		return nil, errors.WrapModuleError(dir, err)
	}

	root, absErr := filepath.Abs(".")
	if absErr != nil {
		return nil, errors.WrapFileSystemError("resolve", ".", absErr)
	}
	d.diagnostics.Warn("No go.mod found, rooting module %s at %s", custom, root)
	return &utils.ModuleInfo{Path: custom, Dir: root}, nil
}
