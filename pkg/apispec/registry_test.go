package apispec

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Calculator struct{}

func declareCalculator(t *testing.T, reg *Registry) {
	t.Helper()
	err := Declare[Calculator](reg).
		Describe("Integer arithmetic").
		Method("Add", AsAPIMethod(), WithDescription("Adds two numbers")).
		Param("a", WithDescription("first operand")).
		Param("b").
		Returns(WithDescription("sum")).
		Method("reset", WithDescription("internal helper")).
		Param("hard").
		Method("Divide", AsAPIMethod()).
		Param("x", WithRange(-100, 100), WithRequired(true)).
		Param("y", WithMin(1), WithRequired(false)).
		Returns(WithRequired(true)).
		Method("Ping", AsAPIMethod()).
		Done()
	require.NoError(t, err)
}

func TestRegistry_DeclareMatchesHandWrittenMetadata(t *testing.T) {
	reg := NewRegistry()
	declareCalculator(t, reg)

	s, err := For[Calculator](reg)
	require.NoError(t, err)

	want := New(calculatorMetadata()).Describe()
	got := s.Describe()

	// package paths differ between the fixture and the declared Go type
	want.Package = got.Package
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declared metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(&TypeMetadata{PkgPath: "example.com/a", Name: "T"}))
	_, ok := reg.LookupType("example.com/a", "T")
	assert.True(t, ok)
	_, ok = reg.LookupType("example.com/b", "T")
	assert.False(t, ok)

	err := reg.Register(&TypeMetadata{PkgPath: "example.com/a", Name: "T"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Error(t, reg.Register(nil))
	assert.Error(t, reg.Register(&TypeMetadata{PkgPath: "example.com/a"}))
}

func TestRegistry_LookupReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&TypeMetadata{
		Name:    "T",
		Methods: []MethodMetadata{{Name: "M", Markers: Markers{APIMethod{}}}},
	}))

	first, ok := reg.LookupType("", "T")
	require.True(t, ok)
	first.Methods[0].Markers = nil

	second, ok := reg.LookupType("", "T")
	require.True(t, ok)
	assert.True(t, second.Methods[0].IsAPIMethod())

	_, ok = reg.LookupType("", "Missing")
	assert.False(t, ok)
}

func TestRegistry_TypesSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		require.NoError(t, reg.Declare("example.com/p", name).Done())
	}

	var names []string
	for _, ty := range reg.Types() {
		names = append(names, ty.Name)
	}
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, names)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = reg.Declare("example.com/p", fmt.Sprintf("T%d", i)).
				Method("M", AsAPIMethod()).
				Done()
		}(i)
		go func(i int) {
			defer wg.Done()
			reg.LookupType("example.com/p", fmt.Sprintf("T%d", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, reg.Types(), 20)
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestLookup(t *testing.T) {
	markers := Markers{Required{Value: true}, Description{Text: "one"}, Description{Text: "two"}}

	d, ok := Lookup[Description](markers)
	require.True(t, ok)
	assert.Equal(t, "one", d.Text)

	_, ok = Lookup[Validation](markers)
	assert.False(t, ok)

	_, ok = Lookup[APIMethod](nil)
	assert.False(t, ok)

	assert.True(t, markers.Has(RequiredKind))
	assert.False(t, markers.Has(APIMethodKind))
}

func TestMarkerKind_String(t *testing.T) {
	assert.Equal(t, "method", APIMethodKind.String())
	assert.Equal(t, "description", DescriptionKind.String())
	assert.Equal(t, "validation", ValidationKind.String())
	assert.Equal(t, "required", RequiredKind.String())
	assert.Equal(t, "unknown", MarkerKind(99).String())
}
