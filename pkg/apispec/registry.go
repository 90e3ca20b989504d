package apispec

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

type typeKey struct {
	pkgPath string
	name    string
}

// Registry is a Provider backed by explicit declaration tables built at
// startup instead of source annotations.
type Registry struct {
	mu    sync.RWMutex
	types map[typeKey]*TypeMetadata
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[typeKey]*TypeMetadata),
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register stores a copy of the metadata. A type may be registered only once.
func (r *Registry) Register(t *TypeMetadata) error {
	if t == nil {
		return fmt.Errorf("cannot register nil type metadata")
	}
	if t.Name == "" {
		return fmt.Errorf("type name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := typeKey{pkgPath: t.PkgPath, name: t.Name}
	if _, exists := r.types[key]; exists {
		return fmt.Errorf("type %s is already registered", t.QualifiedName())
	}
	r.types[key] = t.Clone()
	return nil
}

// LookupType implements Provider
func (r *Registry) LookupType(pkgPath, name string) (*TypeMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[typeKey{pkgPath: pkgPath, name: name}]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Types returns copies of all registered types ordered by qualified name.
func (r *Registry) Types() []*TypeMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*TypeMetadata, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QualifiedName() < out[j].QualifiedName()
	})
	return out
}

// Declare starts a declaration for T in the registry.
func Declare[T any](r *Registry) *TypeBuilder {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return r.Declare(rt.PkgPath(), typeName(rt))
}

// Declare starts a declaration for the type identified by pkgPath and name.
func (r *Registry) Declare(pkgPath, name string) *TypeBuilder {
	return &TypeBuilder{
		registry: r,
		meta:     &TypeMetadata{PkgPath: pkgPath, Name: name},
	}
}

// TypeBuilder collects the metadata of one type. Nothing is visible in the
// registry until Done is called.
type TypeBuilder struct {
	registry *Registry
	meta     *TypeMetadata
}

// Describe attaches a type-level description
func (b *TypeBuilder) Describe(text string) *TypeBuilder {
	b.meta.Markers = append(b.meta.Markers, Description{Text: text})
	return b
}

// Method declares the next method in declaration order.
func (b *TypeBuilder) Method(name string, markers ...Marker) *MethodBuilder {
	b.meta.Methods = append(b.meta.Methods, MethodMetadata{
		Name:    name,
		Markers: append(Markers(nil), markers...),
	})
	return &MethodBuilder{owner: b, index: len(b.meta.Methods) - 1}
}

// Done registers the declared type
func (b *TypeBuilder) Done() error {
	return b.registry.Register(b.meta)
}

// MethodBuilder adds parameters and return markers to the current method.
type MethodBuilder struct {
	owner *TypeBuilder
	index int
}

func (mb *MethodBuilder) method() *MethodMetadata {
	return &mb.owner.meta.Methods[mb.index]
}

// Param declares the next parameter in declaration order
func (mb *MethodBuilder) Param(name string, markers ...Marker) *MethodBuilder {
	m := mb.method()
	m.Params = append(m.Params, ParamMetadata{
		Name:    name,
		Markers: append(Markers(nil), markers...),
	})
	return mb
}

// Returns attaches markers to the return slot
func (mb *MethodBuilder) Returns(markers ...Marker) *MethodBuilder {
	m := mb.method()
	m.Return = append(m.Return, markers...)
	return mb
}

// Method closes the current method and declares the next one.
func (mb *MethodBuilder) Method(name string, markers ...Marker) *MethodBuilder {
	return mb.owner.Method(name, markers...)
}

// Done registers the declared type
func (mb *MethodBuilder) Done() error {
	return mb.owner.Done()
}

// Marker constructors for declarations.

// AsAPIMethod returns the API method marker
func AsAPIMethod() Marker { return APIMethod{} }

// WithDescription returns a description marker
func WithDescription(text string) Marker { return Description{Text: text} }

// WithRange returns a validation marker carrying both bounds
func WithRange(lo, hi int) Marker { return Validation{Min: &lo, Max: &hi} }

// WithMin returns a validation marker carrying only a lower bound
func WithMin(lo int) Marker { return Validation{Min: &lo} }

// WithMax returns a validation marker carrying only an upper bound
func WithMax(hi int) Marker { return Validation{Max: &hi} }

// WithRequired returns a required marker
func WithRequired(required bool) Marker { return Required{Value: required} }
