package apispec

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTypeNotFound is returned by For when the provider has no metadata for T.
var ErrTypeNotFound = errors.New("type metadata not found")

// Specifier answers documentation queries about a single target type.
// All methods are pure reads and safe for concurrent use.
type Specifier struct {
	typ *TypeMetadata
}

// New creates a Specifier for the given metadata. The metadata is copied, so
// later changes by the caller are not observed. A nil argument describes an
// empty type on which every query soft-fails.
func New(t *TypeMetadata) *Specifier {
	if t == nil {
		return &Specifier{typ: &TypeMetadata{}}
	}
	return &Specifier{typ: t.Clone()}
}

// For resolves T through the provider and creates a Specifier for it.
// Pointer types are dereferenced before lookup.
func For[T any](p Provider) (*Specifier, error) {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() == "" {
		return nil, fmt.Errorf("%w: %s is not a named type", ErrTypeNotFound, rt)
	}
	t, ok := p.LookupType(rt.PkgPath(), typeName(rt))
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrTypeNotFound, rt.PkgPath(), rt.Name())
	}
	return New(t), nil
}

// Type returns a copy of the described type's metadata.
func (s *Specifier) Type() *TypeMetadata {
	return s.typ.Clone()
}

// APIDescription returns the type-level description, if declared.
func (s *Specifier) APIDescription() (string, bool) {
	return description(s.typ.Markers)
}

// APIMethodNames returns the names of all API-marked methods in declaration order.
func (s *Specifier) APIMethodNames() []string {
	names := make([]string, 0, len(s.typ.Methods))
	for i := range s.typ.Methods {
		if s.typ.Methods[i].IsAPIMethod() {
			names = append(names, s.typ.Methods[i].Name)
		}
	}
	return names
}

// APIMethodDescription returns the description of the named method.
//
// Unlike APIMethodNames and APIMethodFullDescription this does not require the
// method to be API-marked: any method that resolves by name is answered.
func (s *Specifier) APIMethodDescription(methodName string) (string, bool) {
	m, ok := s.typ.Method(methodName)
	if !ok {
		return "", false
	}
	return description(m.Markers)
}

// APIMethodParamNames returns the parameter names of the named method in
// declaration order. The boolean is false when the method does not exist.
func (s *Specifier) APIMethodParamNames(methodName string) ([]string, bool) {
	m, ok := s.typ.Method(methodName)
	if !ok {
		return nil, false
	}
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return names, true
}

// APIMethodParamDescription returns the description of a parameter matched by
// exact name.
func (s *Specifier) APIMethodParamDescription(methodName, paramName string) (string, bool) {
	m, ok := s.typ.Method(methodName)
	if !ok {
		return "", false
	}
	p, ok := m.Param(paramName)
	if !ok {
		return "", false
	}
	return description(p.Markers)
}

// APIMethodParamFullDescription never fails. The returned name is always
// paramName; the remaining fields are filled only from declared markers.
func (s *Specifier) APIMethodParamFullDescription(methodName, paramName string) ParamDescription {
	result := ParamDescription{ParamDescription: CommonDescription{Name: paramName}}

	m, ok := s.typ.Method(methodName)
	if !ok {
		return result
	}
	p, ok := m.Param(paramName)
	if !ok {
		return result
	}

	if text, ok := description(p.Markers); ok {
		result.ParamDescription.Description = &text
	}
	if v, ok := Lookup[Validation](p.Markers); ok {
		result.MaxValue = copyInt(v.Max)
		result.MinValue = copyInt(v.Min)
	}
	if r, ok := Lookup[Required](p.Markers); ok {
		required := r.Value
		result.Required = &required
	}
	return result
}

// APIMethodFullDescription assembles the description tree of an API method.
// It returns nil when the method does not exist or is not API-marked.
func (s *Specifier) APIMethodFullDescription(methodName string) *MethodDescription {
	m, ok := s.typ.Method(methodName)
	if !ok || !m.IsAPIMethod() {
		return nil
	}

	result := &MethodDescription{
		MethodDescription: CommonDescription{Name: methodName},
	}
	if text, ok := s.APIMethodDescription(methodName); ok {
		result.MethodDescription.Description = &text
	}

	paramNames, _ := s.APIMethodParamNames(methodName)
	result.ParamDescriptions = make([]ParamDescription, 0, len(paramNames))
	for _, name := range paramNames {
		result.ParamDescriptions = append(result.ParamDescriptions, s.APIMethodParamFullDescription(methodName, name))
	}

	result.ReturnDescription = returnDescription(m.Return)
	return result
}

// Describe assembles the description of the type and all of its API methods.
func (s *Specifier) Describe() TypeDescription {
	desc := TypeDescription{
		Name:    s.typ.Name,
		Package: s.typ.PkgPath,
	}
	if text, ok := s.APIDescription(); ok {
		desc.Description = &text
	}

	names := s.APIMethodNames()
	desc.Methods = make([]MethodDescription, 0, len(names))
	for _, name := range names {
		if m := s.APIMethodFullDescription(name); m != nil {
			desc.Methods = append(desc.Methods, *m)
		}
	}
	return desc
}

// returnDescription inspects the return slot markers independently and
// returns nil when none of them is declared. The name is never set.
func returnDescription(markers Markers) *ParamDescription {
	var (
		result ParamDescription
		set    bool
	)

	if text, ok := description(markers); ok {
		result.ParamDescription.Description = &text
		set = true
	}
	if v, ok := Lookup[Validation](markers); ok {
		result.MaxValue = copyInt(v.Max)
		result.MinValue = copyInt(v.Min)
		set = true
	}
	if r, ok := Lookup[Required](markers); ok {
		required := r.Value
		result.Required = &required
		set = true
	}

	if !set {
		return nil
	}
	return &result
}

func description(markers Markers) (string, bool) {
	d, ok := Lookup[Description](markers)
	if !ok {
		return "", false
	}
	return d.Text, true
}

// typeName strips type arguments from instantiated generic type names, so
// Box[int] is looked up as Box.
func typeName(rt reflect.Type) string {
	name := rt.Name()
	for i := 0; i < len(name); i++ {
		if name[i] == '[' {
			return name[:i]
		}
	}
	return name
}
