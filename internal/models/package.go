package models

import (
	"github.com/toyz/apispec/pkg/apispec"
)

// PackageMetadata represents all annotated types found in a package
type PackageMetadata struct {
	PackageName string                  // name of the Go package
	PackagePath string                  // file system path to the package
	ImportPath  string                  // import path, empty until resolved against go.mod
	Types       []*apispec.TypeMetadata // named types in file-name then source order
}

// SetImportPath records the import path and stamps it on every type
func (p *PackageMetadata) SetImportPath(importPath string) {
	p.ImportPath = importPath
	for _, t := range p.Types {
		t.PkgPath = importPath
	}
}

// Type returns the type declared under name
func (p *PackageMetadata) Type(name string) (*apispec.TypeMetadata, bool) {
	for _, t := range p.Types {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// LookupType implements apispec.Provider for a single package
func (p *PackageMetadata) LookupType(pkgPath, name string) (*apispec.TypeMetadata, bool) {
	if pkgPath != p.ImportPath {
		return nil, false
	}
	t, ok := p.Type(name)
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// APITypes returns the types that declare a description or at least one API method
func (p *PackageMetadata) APITypes() []*apispec.TypeMetadata {
	var out []*apispec.TypeMetadata
	for _, t := range p.Types {
		if isAPIType(t) {
			out = append(out, t)
		}
	}
	return out
}

func isAPIType(t *apispec.TypeMetadata) bool {
	if t.Markers.Has(apispec.DescriptionKind) {
		return true
	}
	for i := range t.Methods {
		if t.Methods[i].IsAPIMethod() {
			return true
		}
	}
	return false
}
