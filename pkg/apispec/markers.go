package apispec

// MarkerKind identifies a kind of declarative metadata attached to a type,
// method, parameter or return slot.
type MarkerKind int

const (
	APIMethodKind MarkerKind = iota
	DescriptionKind
	ValidationKind
	RequiredKind
)

// String returns the string representation of the marker kind
func (k MarkerKind) String() string {
	switch k {
	case APIMethodKind:
		return "method"
	case DescriptionKind:
		return "description"
	case ValidationKind:
		return "validation"
	case RequiredKind:
		return "required"
	default:
		return "unknown"
	}
}

// Marker is a single piece of declared metadata.
type Marker interface {
	Kind() MarkerKind
}

// APIMethod flags a method as part of the documented API surface.
type APIMethod struct{}

// Description carries human-readable text.
type Description struct {
	Text string
}

// Validation carries optional integer bounds. Either bound may be absent.
type Validation struct {
	Min *int
	Max *int
}

// Required carries the required-ness of a parameter or return value.
type Required struct {
	Value bool
}

func (APIMethod) Kind() MarkerKind   { return APIMethodKind }
func (Description) Kind() MarkerKind { return DescriptionKind }
func (Validation) Kind() MarkerKind  { return ValidationKind }
func (Required) Kind() MarkerKind    { return RequiredKind }

// Markers is the ordered set of markers declared on one target.
type Markers []Marker

// Lookup returns the first marker of type M. A missing marker is reported
// through the boolean, never as an error.
func Lookup[M Marker](markers Markers) (M, bool) {
	for _, m := range markers {
		if typed, ok := m.(M); ok {
			return typed, true
		}
	}
	var zero M
	return zero, false
}

// Has reports whether a marker of the given kind is present.
func (ms Markers) Has(kind MarkerKind) bool {
	for _, m := range ms {
		if m.Kind() == kind {
			return true
		}
	}
	return false
}

func (ms Markers) clone() Markers {
	if ms == nil {
		return nil
	}
	out := make(Markers, len(ms))
	for i, m := range ms {
		// Validation holds pointers; copy them so the clone shares nothing.
		if v, ok := m.(Validation); ok {
			m = Validation{Min: copyInt(v.Min), Max: copyInt(v.Max)}
		}
		out[i] = m
	}
	return out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
