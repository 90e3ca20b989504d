package annotations

import (
	"fmt"
	"strconv"
	"strings"
)

// AnnotationPrefix introduces every annotation comment
const AnnotationPrefix = "api::"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	MethodAnnotation AnnotationType = iota
	DescriptionAnnotation
	ValidationAnnotation
	RequiredAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case MethodAnnotation:
		return "method"
	case DescriptionAnnotation:
		return "description"
	case ValidationAnnotation:
		return "validation"
	case RequiredAnnotation:
		return "required"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "method":
		return MethodAnnotation, nil
	case "description":
		return DescriptionAnnotation, nil
	case "validation":
		return ValidationAnnotation, nil
	case "required":
		return RequiredAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// TargetKind is the kind of declaration an annotation is attached to
type TargetKind int

const (
	TypeTarget TargetKind = iota
	MethodTarget
)

// String returns the string representation of the target kind
func (k TargetKind) String() string {
	switch k {
	case TypeTarget:
		return "type"
	case MethodTarget:
		return "method"
	default:
		return "unknown"
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String formats the location as file:line:column
func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ParsedAnnotation represents a fully parsed annotation with type-safe parameters
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Target     string                 // Target type or Type.Method name
	Args       []string               // Positional values in source order
	Parameters map[string]interface{} // Typed options
	Location   SourceLocation         // Source location
	Raw        string                 // Original annotation text
}

// Text joins the positional values with single spaces
func (p *ParsedAnnotation) Text() string {
	return strings.Join(p.Args, " ")
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter value with optional default
func (p *ParsedAnnotation) GetBool(paramName string, defaultValue ...bool) bool {
	if value, exists := p.Parameters[paramName]; exists {
		if boolValue, ok := value.(bool); ok {
			return boolValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// GetIntPtr returns an integer parameter, or nil when it was not given
func (p *ParsedAnnotation) GetIntPtr(paramName string) *int {
	if value, exists := p.Parameters[paramName]; exists {
		if intValue, ok := value.(int); ok {
			return &intValue
		}
	}
	return nil
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
	IntType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an annotation option
type ParameterSpec struct {
	Type         ParameterType           // Parameter type
	Required     bool                    // Whether parameter is required
	DefaultValue interface{}             // Value used when given as a bare flag
	Description  string                  // Parameter description
	Validator    func(interface{}) error // Custom validator function
}

// CustomValidator represents a custom validation function for annotations
type CustomValidator func(*ParsedAnnotation) error

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	Targets     []TargetKind             // Declarations the annotation may be attached to
	MinArgs     int                      // Minimum number of positional values
	MaxArgs     int                      // Maximum number of positional values, -1 for unbounded
	Parameters  map[string]ParameterSpec // Option specifications
	Validators  []CustomValidator        // Custom validation functions
	Examples    []string                 // Usage examples
}

// AllowsTarget reports whether the schema may be attached to the target kind
func (s AnnotationSchema) AllowsTarget(kind TargetKind) bool {
	for _, t := range s.Targets {
		if t == kind {
			return true
		}
	}
	return false
}

// ConvertToBool converts various types to boolean
func ConvertToBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	case int:
		return v != 0, nil
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}

// ConvertToInt converts various types to integer
func ConvertToInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("cannot convert %T to int", value)
	}
}

// ConvertToString converts any value to a string
func ConvertToString(value interface{}) (string, error) {
	if strValue, ok := value.(string); ok {
		return strValue, nil
	}
	return fmt.Sprintf("%v", value), nil
}
