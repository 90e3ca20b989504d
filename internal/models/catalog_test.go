package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/apispec/pkg/apispec"
)

func testPackage(importPath string, names ...string) *PackageMetadata {
	pkg := &PackageMetadata{PackageName: "p", PackagePath: "./p"}
	for _, name := range names {
		pkg.Types = append(pkg.Types, &apispec.TypeMetadata{
			Name:    name,
			Methods: []apispec.MethodMetadata{{Name: "Do", Markers: apispec.Markers{apispec.APIMethod{}}}},
		})
	}
	pkg.SetImportPath(importPath)
	return pkg
}

func TestPackageMetadata_SetImportPath(t *testing.T) {
	pkg := testPackage("example.com/calc", "Calculator")

	assert.Equal(t, "example.com/calc", pkg.ImportPath)
	assert.Equal(t, "example.com/calc", pkg.Types[0].PkgPath)
}

func TestPackageMetadata_LookupType(t *testing.T) {
	pkg := testPackage("example.com/calc", "Calculator")

	got, ok := pkg.LookupType("example.com/calc", "Calculator")
	require.True(t, ok)
	assert.Equal(t, "Calculator", got.Name)

	got.Methods = nil
	again, _ := pkg.LookupType("example.com/calc", "Calculator")
	assert.Len(t, again.Methods, 1, "lookup must hand out copies")

	_, ok = pkg.LookupType("example.com/other", "Calculator")
	assert.False(t, ok)
	_, ok = pkg.LookupType("example.com/calc", "Missing")
	assert.False(t, ok)
}

func TestPackageMetadata_APITypes(t *testing.T) {
	pkg := testPackage("example.com/calc", "Calculator")
	pkg.Types = append(pkg.Types,
		&apispec.TypeMetadata{Name: "helper", Methods: []apispec.MethodMetadata{{Name: "Internal"}}},
		&apispec.TypeMetadata{Name: "Documented", Markers: apispec.Markers{apispec.Description{Text: "doc only"}}},
	)

	api := pkg.APITypes()
	require.Len(t, api, 2)
	assert.Equal(t, "Calculator", api[0].Name)
	assert.Equal(t, "Documented", api[1].Name)
}

func TestCatalog(t *testing.T) {
	catalog := NewCatalog("example.com",
		testPackage("example.com/z", "Widget"),
		testPackage("example.com/a", "Widget", "Gadget"),
	)

	require.Len(t, catalog.Packages, 2)
	assert.Equal(t, "example.com/a", catalog.Packages[0].ImportPath)
	assert.Equal(t, "example.com/z", catalog.Packages[1].ImportPath)

	var _ apispec.Provider = catalog

	got, ok := catalog.LookupType("example.com/z", "Widget")
	require.True(t, ok)
	assert.Equal(t, "example.com/z", got.PkgPath)

	_, ok = catalog.LookupType("example.com/z", "Gadget")
	assert.False(t, ok)
	_, ok = catalog.LookupType("example.com/missing", "Widget")
	assert.False(t, ok)

	widgets := catalog.FindByName("Widget")
	require.Len(t, widgets, 2)
	assert.Equal(t, "example.com/a", widgets[0].PkgPath)

	assert.Len(t, catalog.Types(false), 3)
	assert.Len(t, catalog.Types(true), 3)
}

func TestCatalog_SpecifierOverCatalog(t *testing.T) {
	catalog := NewCatalog("example.com", testPackage("example.com/a", "Widget"))

	typ, ok := catalog.LookupType("example.com/a", "Widget")
	require.True(t, ok)

	s := apispec.New(typ)
	assert.Equal(t, []string{"Do"}, s.APIMethodNames())
}
