package apispec

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

// calculatorMetadata mirrors:
//
//	Add(a int [description "first operand"], b int) int [description "sum"]
//
// plus a few methods that exercise the marker gate and the return slot.
func calculatorMetadata() *TypeMetadata {
	return &TypeMetadata{
		PkgPath: "example.com/calc",
		Name:    "Calculator",
		Markers: Markers{Description{Text: "Integer arithmetic"}},
		Methods: []MethodMetadata{
			{
				Name:    "Add",
				Markers: Markers{APIMethod{}, Description{Text: "Adds two numbers"}},
				Params: []ParamMetadata{
					{Name: "a", Markers: Markers{Description{Text: "first operand"}}},
					{Name: "b"},
				},
				Return: Markers{Description{Text: "sum"}},
			},
			{
				Name:    "reset",
				Markers: Markers{Description{Text: "internal helper"}},
				Params:  []ParamMetadata{{Name: "hard"}},
			},
			{
				Name:    "Divide",
				Markers: Markers{APIMethod{}},
				Params: []ParamMetadata{
					{Name: "x", Markers: Markers{Validation{Min: intPtr(-100), Max: intPtr(100)}, Required{Value: true}}},
					{Name: "y", Markers: Markers{Validation{Min: intPtr(1)}, Required{Value: false}}},
				},
				Return: Markers{Required{Value: true}},
			},
			{
				Name:    "Ping",
				Markers: Markers{APIMethod{}},
			},
		},
	}
}

func TestSpecifier_APIDescription(t *testing.T) {
	s := New(calculatorMetadata())

	text, ok := s.APIDescription()
	assert.True(t, ok)
	assert.Equal(t, "Integer arithmetic", text)

	empty := New(&TypeMetadata{Name: "Bare"})
	text, ok = empty.APIDescription()
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestSpecifier_APIMethodNames(t *testing.T) {
	s := New(calculatorMetadata())

	assert.Equal(t, []string{"Add", "Divide", "Ping"}, s.APIMethodNames())

	none := New(&TypeMetadata{Name: "NoMethods"})
	names := none.APIMethodNames()
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestSpecifier_APIMethodDescription(t *testing.T) {
	s := New(calculatorMetadata())

	tests := []struct {
		name     string
		method   string
		expected string
		found    bool
	}{
		{name: "api method", method: "Add", expected: "Adds two numbers", found: true},
		{name: "unmarked method still answers", method: "reset", expected: "internal helper", found: true},
		{name: "no description marker", method: "Divide", found: false},
		{name: "unknown method", method: "Multiply", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := s.APIMethodDescription(tt.method)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestSpecifier_APIMethodParamNames(t *testing.T) {
	s := New(calculatorMetadata())

	names, ok := s.APIMethodParamNames("Add")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, names)

	names, ok = s.APIMethodParamNames("Ping")
	require.True(t, ok)
	assert.Empty(t, names)

	names, ok = s.APIMethodParamNames("Multiply")
	assert.False(t, ok)
	assert.Nil(t, names)
}

func TestSpecifier_APIMethodParamDescription(t *testing.T) {
	s := New(calculatorMetadata())

	text, ok := s.APIMethodParamDescription("Add", "a")
	assert.True(t, ok)
	assert.Equal(t, "first operand", text)

	_, ok = s.APIMethodParamDescription("Add", "b")
	assert.False(t, ok, "parameter without description marker")

	_, ok = s.APIMethodParamDescription("Add", "A")
	assert.False(t, ok, "names match exactly")

	_, ok = s.APIMethodParamDescription("Multiply", "a")
	assert.False(t, ok, "unknown method")
}

func TestSpecifier_APIMethodParamFullDescription(t *testing.T) {
	s := New(calculatorMetadata())

	tests := []struct {
		name     string
		method   string
		param    string
		expected ParamDescription
	}{
		{
			name:   "description only",
			method: "Add",
			param:  "a",
			expected: ParamDescription{
				ParamDescription: CommonDescription{Name: "a", Description: strPtr("first operand")},
			},
		},
		{
			name:     "no markers",
			method:   "Add",
			param:    "b",
			expected: ParamDescription{ParamDescription: CommonDescription{Name: "b"}},
		},
		{
			name:   "bounds and required",
			method: "Divide",
			param:  "x",
			expected: ParamDescription{
				ParamDescription: CommonDescription{Name: "x"},
				MinValue:         intPtr(-100),
				MaxValue:         intPtr(100),
				Required:         boolPtr(true),
			},
		},
		{
			name:   "lower bound only and explicit not required",
			method: "Divide",
			param:  "y",
			expected: ParamDescription{
				ParamDescription: CommonDescription{Name: "y"},
				MinValue:         intPtr(1),
				Required:         boolPtr(false),
			},
		},
		{
			name:     "unknown parameter",
			method:   "Add",
			param:    "c",
			expected: ParamDescription{ParamDescription: CommonDescription{Name: "c"}},
		},
		{
			name:     "unknown method",
			method:   "Multiply",
			param:    "a",
			expected: ParamDescription{ParamDescription: CommonDescription{Name: "a"}},
		},
		{
			name:     "empty names",
			method:   "",
			param:    "",
			expected: ParamDescription{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.APIMethodParamFullDescription(tt.method, tt.param)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("APIMethodParamFullDescription(%q, %q) mismatch (-want +got):\n%s", tt.method, tt.param, diff)
			}
			assert.Equal(t, tt.param, got.ParamDescription.Name)
		})
	}
}

func TestSpecifier_APIMethodFullDescription(t *testing.T) {
	s := New(calculatorMetadata())

	t.Run("add", func(t *testing.T) {
		got := s.APIMethodFullDescription("Add")
		require.NotNil(t, got)

		want := &MethodDescription{
			MethodDescription: CommonDescription{Name: "Add", Description: strPtr("Adds two numbers")},
			ParamDescriptions: []ParamDescription{
				{ParamDescription: CommonDescription{Name: "a", Description: strPtr("first operand")}},
				{ParamDescription: CommonDescription{Name: "b"}},
			},
			ReturnDescription: &ParamDescription{
				ParamDescription: CommonDescription{Description: strPtr("sum")},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("APIMethodFullDescription(Add) mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("required only return", func(t *testing.T) {
		got := s.APIMethodFullDescription("Divide")
		require.NotNil(t, got)
		require.NotNil(t, got.ReturnDescription)

		ret := got.ReturnDescription
		require.NotNil(t, ret.Required)
		assert.True(t, *ret.Required)
		assert.Nil(t, ret.ParamDescription.Description)
		assert.Nil(t, ret.MinValue)
		assert.Nil(t, ret.MaxValue)
		assert.Empty(t, ret.ParamDescription.Name, "return path never sets a name")
	})

	t.Run("no return markers", func(t *testing.T) {
		got := s.APIMethodFullDescription("Ping")
		require.NotNil(t, got)
		assert.Nil(t, got.ReturnDescription)
		assert.NotNil(t, got.ParamDescriptions)
		assert.Empty(t, got.ParamDescriptions)
		assert.Nil(t, got.MethodDescription.Description)
	})

	t.Run("unmarked method", func(t *testing.T) {
		assert.Nil(t, s.APIMethodFullDescription("reset"))
	})

	t.Run("unknown method", func(t *testing.T) {
		assert.Nil(t, s.APIMethodFullDescription("Multiply"))
	})
}

func TestSpecifier_ParamsMatchParamFullDescription(t *testing.T) {
	s := New(calculatorMetadata())

	for _, method := range s.APIMethodNames() {
		full := s.APIMethodFullDescription(method)
		require.NotNil(t, full, method)

		names, ok := s.APIMethodParamNames(method)
		require.True(t, ok)
		require.Len(t, full.ParamDescriptions, len(names))

		for i, name := range names {
			want := s.APIMethodParamFullDescription(method, name)
			if diff := cmp.Diff(want, full.ParamDescriptions[i]); diff != "" {
				t.Errorf("%s param %d mismatch (-want +got):\n%s", method, i, diff)
			}
		}
	}
}

func TestSpecifier_ReturnValidationBounds(t *testing.T) {
	s := New(&TypeMetadata{
		Name: "Bounded",
		Methods: []MethodMetadata{
			{
				Name:    "Count",
				Markers: Markers{APIMethod{}},
				Return:  Markers{Validation{Max: intPtr(10)}},
			},
			{
				Name:    "Empty",
				Markers: Markers{APIMethod{}},
				Return:  Markers{Validation{}},
			},
		},
	})

	count := s.APIMethodFullDescription("Count")
	require.NotNil(t, count.ReturnDescription)
	assert.Nil(t, count.ReturnDescription.MinValue)
	assert.Equal(t, intPtr(10), count.ReturnDescription.MaxValue)
	assert.Nil(t, count.ReturnDescription.Required)

	// a declared marker with no bounds still counts as declared
	empty := s.APIMethodFullDescription("Empty")
	require.NotNil(t, empty.ReturnDescription)
	assert.Equal(t, ParamDescription{}, *empty.ReturnDescription)
}

func TestSpecifier_FirstMarkerWins(t *testing.T) {
	s := New(&TypeMetadata{
		Name: "Dupes",
		Methods: []MethodMetadata{
			{
				Name:    "Do",
				Markers: Markers{APIMethod{}, Description{Text: "first"}, Description{Text: "second"}},
				Params: []ParamMetadata{
					{Name: "v", Markers: Markers{Required{Value: false}, Required{Value: true}}},
					{Name: "v", Markers: Markers{Description{Text: "shadowed"}}},
				},
			},
		},
	})

	text, ok := s.APIMethodDescription("Do")
	require.True(t, ok)
	assert.Equal(t, "first", text)

	param := s.APIMethodParamFullDescription("Do", "v")
	require.NotNil(t, param.Required)
	assert.False(t, *param.Required)
	assert.Nil(t, param.ParamDescription.Description, "first parameter with the name is used")
}

func TestSpecifier_Describe(t *testing.T) {
	s := New(calculatorMetadata())

	desc := s.Describe()
	assert.Equal(t, "Calculator", desc.Name)
	assert.Equal(t, "example.com/calc", desc.Package)
	require.NotNil(t, desc.Description)
	assert.Equal(t, "Integer arithmetic", *desc.Description)

	require.Len(t, desc.Methods, 3)
	for i, name := range []string{"Add", "Divide", "Ping"} {
		assert.Equal(t, name, desc.Methods[i].MethodDescription.Name)
	}
}

func TestSpecifier_NilMetadata(t *testing.T) {
	s := New(nil)

	_, ok := s.APIDescription()
	assert.False(t, ok)
	assert.Empty(t, s.APIMethodNames())
	assert.Nil(t, s.APIMethodFullDescription("Any"))
	assert.Equal(t, "p", s.APIMethodParamFullDescription("Any", "p").ParamDescription.Name)
}

func TestSpecifier_IsolatedFromCaller(t *testing.T) {
	meta := calculatorMetadata()
	s := New(meta)

	meta.Methods[0].Markers = nil
	meta.Methods[2].Params[0].Markers[0] = Description{Text: "mutated"}

	assert.Contains(t, s.APIMethodNames(), "Add")
	x := s.APIMethodParamFullDescription("Divide", "x")
	assert.Equal(t, intPtr(-100), x.MinValue)

	// results do not alias the specifier's metadata either
	*x.MinValue = 0
	again := s.APIMethodParamFullDescription("Divide", "x")
	assert.Equal(t, intPtr(-100), again.MinValue)
}

func TestSpecifier_ConcurrentReads(t *testing.T) {
	s := New(calculatorMetadata())
	want := s.Describe()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if diff := cmp.Diff(want, s.Describe()); diff != "" {
					t.Errorf("concurrent Describe mismatch:\n%s", diff)
					return
				}
			}
		}()
	}
	wg.Wait()
}

type widget struct{}

type box[T any] struct{ v T }

func TestFor(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Declare[widget](reg).
		Describe("A widget").
		Method("Spin", AsAPIMethod()).
		Done())
	require.NoError(t, Declare[box[int]](reg).Describe("A box").Done())

	s, err := For[widget](reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spin"}, s.APIMethodNames())

	ptr, err := For[*widget](reg)
	require.NoError(t, err)
	text, _ := ptr.APIDescription()
	assert.Equal(t, "A widget", text)

	generic, err := For[box[string]](reg)
	require.NoError(t, err)
	text, _ = generic.APIDescription()
	assert.Equal(t, "A box", text)

	_, err = For[struct{}](reg)
	assert.True(t, errors.Is(err, ErrTypeNotFound))

	type unregistered struct{}
	_, err = For[unregistered](reg)
	assert.ErrorIs(t, err, ErrTypeNotFound)
}
