package apispec

// TypeMetadata is the declared metadata of one target type.
type TypeMetadata struct {
	PkgPath string           // import path of the declaring package
	Name    string           // type name without package qualifier
	Markers Markers          // type-level markers
	Methods []MethodMetadata // methods in declaration order
}

// MethodMetadata is the declared metadata of a single method.
type MethodMetadata struct {
	Name    string
	Markers Markers
	Params  []ParamMetadata // parameters in declaration order
	Return  Markers         // markers declared on the return slot
}

// ParamMetadata is the declared metadata of a single parameter.
type ParamMetadata struct {
	Name    string
	Markers Markers
}

// Provider resolves type metadata. Implementations must return data that the
// caller may keep without observing later mutation.
type Provider interface {
	LookupType(pkgPath, name string) (*TypeMetadata, bool)
}

// QualifiedName returns pkgPath.Name, or just Name when no package is set.
func (t *TypeMetadata) QualifiedName() string {
	if t.PkgPath == "" {
		return t.Name
	}
	return t.PkgPath + "." + t.Name
}

// Method returns the first method with the given name.
func (t *TypeMetadata) Method(name string) (*MethodMetadata, bool) {
	for i := range t.Methods {
		if t.Methods[i].Name == name {
			return &t.Methods[i], true
		}
	}
	return nil, false
}

// Param returns the first parameter with exactly the given name.
func (m *MethodMetadata) Param(name string) (*ParamMetadata, bool) {
	for i := range m.Params {
		if m.Params[i].Name == name {
			return &m.Params[i], true
		}
	}
	return nil, false
}

// IsAPIMethod reports whether the method carries the API method marker.
func (m *MethodMetadata) IsAPIMethod() bool {
	return m.Markers.Has(APIMethodKind)
}

// Clone returns a deep copy of the metadata.
func (t *TypeMetadata) Clone() *TypeMetadata {
	if t == nil {
		return nil
	}
	out := &TypeMetadata{
		PkgPath: t.PkgPath,
		Name:    t.Name,
		Markers: t.Markers.clone(),
	}
	if t.Methods != nil {
		out.Methods = make([]MethodMetadata, len(t.Methods))
		for i, m := range t.Methods {
			out.Methods[i] = m.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the method metadata.
func (m MethodMetadata) Clone() MethodMetadata {
	out := MethodMetadata{
		Name:    m.Name,
		Markers: m.Markers.clone(),
		Return:  m.Return.clone(),
	}
	if m.Params != nil {
		out.Params = make([]ParamMetadata, len(m.Params))
		for i, p := range m.Params {
			out.Params[i] = ParamMetadata{Name: p.Name, Markers: p.Markers.clone()}
		}
	}
	return out
}
