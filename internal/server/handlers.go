package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/toyz/apispec/internal/models"
	"github.com/toyz/apispec/pkg/apispec"
)

// TypeSummary is one entry of the type listing
type TypeSummary struct {
	Name        string  `json:"name"`
	Package     string  `json:"package"`
	Description *string `json:"description,omitempty"`
}

// Handlers serves descriptions out of an immutable catalog. Every request
// builds its own Specifier.
type Handlers struct {
	catalog *models.Catalog
}

// NewHandlers creates handlers for catalog
func NewHandlers(catalog *models.Catalog) *Handlers {
	return &Handlers{catalog: catalog}
}

// Health reports liveness
func (h *Handlers) Health(ctx RequestContext) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListTypes lists described types; ?all=true includes every parsed type
func (h *Handlers) ListTypes(ctx RequestContext) error {
	all := ctx.QueryParam("all") == "true"

	types := h.catalog.Types(!all)
	out := make([]TypeSummary, 0, len(types))
	for _, t := range types {
		summary := TypeSummary{Name: t.Name, Package: t.PkgPath}
		if text, ok := apispec.New(t).APIDescription(); ok {
			summary.Description = &text
		}
		out = append(out, summary)
	}
	return ctx.JSON(http.StatusOK, out)
}

// GetType returns the full description of a type
func (h *Handlers) GetType(ctx RequestContext) error {
	s, err := h.specifier(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s.Describe())
}

// GetMethod returns the description tree of one API method
func (h *Handlers) GetMethod(ctx RequestContext) error {
	s, err := h.specifier(ctx)
	if err != nil {
		return err
	}

	method := ctx.Param("method")
	desc := s.APIMethodFullDescription(method)
	if desc == nil {
		return NewHTTPError(http.StatusNotFound, fmt.Sprintf("API method '%s' not found on type %s", method, s.Type().Name))
	}
	return ctx.JSON(http.StatusOK, desc)
}

// GetParam returns a parameter description. Unknown methods and parameters
// yield a skeleton carrying only the name.
func (h *Handlers) GetParam(ctx RequestContext) error {
	s, err := h.specifier(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s.APIMethodParamFullDescription(ctx.Param("method"), ctx.Param("param")))
}

// specifier resolves the :type parameter, using ?package= when given
func (h *Handlers) specifier(ctx RequestContext) (*apispec.Specifier, error) {
	name := ctx.Param("type")

	if pkg := ctx.QueryParam("package"); pkg != "" {
		t, ok := h.catalog.LookupType(pkg, name)
		if !ok {
			return nil, NewHTTPError(http.StatusNotFound, fmt.Sprintf("type '%s' not found in package %s", name, pkg))
		}
		return apispec.New(t), nil
	}

	matches := h.catalog.FindByName(name)
	switch len(matches) {
	case 0:
		return nil, NewHTTPError(http.StatusNotFound, fmt.Sprintf("type '%s' not found", name))
	case 1:
		return apispec.New(matches[0]), nil
	default:
		pkgs := make([]string, len(matches))
		for i, t := range matches {
			pkgs[i] = t.PkgPath
		}
		return nil, NewHTTPError(http.StatusConflict, fmt.Sprintf("type '%s' is declared in several packages (%s); pass ?package=", name, strings.Join(pkgs, ", ")))
	}
}
