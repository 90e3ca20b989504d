package models

import (
	"sort"

	"github.com/toyz/apispec/pkg/apispec"
)

// Catalog is the set of packages discovered in one module
type Catalog struct {
	Module   string             // module path from go.mod
	Packages []*PackageMetadata // sorted by import path
}

// NewCatalog builds a catalog and orders its packages by import path
func NewCatalog(module string, packages ...*PackageMetadata) *Catalog {
	c := &Catalog{Module: module}
	for _, pkg := range packages {
		c.Add(pkg)
	}
	return c
}

// Add inserts a package keeping import-path order
func (c *Catalog) Add(pkg *PackageMetadata) {
	i := sort.Search(len(c.Packages), func(i int) bool {
		return c.Packages[i].ImportPath >= pkg.ImportPath
	})
	c.Packages = append(c.Packages, nil)
	copy(c.Packages[i+1:], c.Packages[i:])
	c.Packages[i] = pkg
}

// Package returns the package with the given import path
func (c *Catalog) Package(importPath string) (*PackageMetadata, bool) {
	for _, pkg := range c.Packages {
		if pkg.ImportPath == importPath {
			return pkg, true
		}
	}
	return nil, false
}

// LookupType implements apispec.Provider across every package in the catalog
func (c *Catalog) LookupType(pkgPath, name string) (*apispec.TypeMetadata, bool) {
	pkg, ok := c.Package(pkgPath)
	if !ok {
		return nil, false
	}
	return pkg.LookupType(pkgPath, name)
}

// FindByName returns every type called name, in package order
func (c *Catalog) FindByName(name string) []*apispec.TypeMetadata {
	var out []*apispec.TypeMetadata
	for _, pkg := range c.Packages {
		if t, ok := pkg.Type(name); ok {
			out = append(out, t)
		}
	}
	return out
}

// Types returns all types in the catalog. When apiOnly is set, types with
// neither a description nor an API method are skipped.
func (c *Catalog) Types(apiOnly bool) []*apispec.TypeMetadata {
	var out []*apispec.TypeMetadata
	for _, pkg := range c.Packages {
		if apiOnly {
			out = append(out, pkg.APITypes()...)
			continue
		}
		out = append(out, pkg.Types...)
	}
	return out
}
