package annotations

import (
	"fmt"
)

// Built-in annotation schemas

// targetOptions are shared by annotations that can describe a parameter or
// the return slot instead of the method itself.
func targetOptions() map[string]ParameterSpec {
	return map[string]ParameterSpec{
		"Param": {
			Type:        StringType,
			Description: "Name of the method parameter the annotation applies to",
			Validator:   ValidateIdentifier,
		},
		"Return": {
			Type:        BoolType,
			Description: "Apply the annotation to the method's return value",
		},
	}
}

func withTargetOptions(extra map[string]ParameterSpec) map[string]ParameterSpec {
	params := targetOptions()
	for name, spec := range extra {
		params[name] = spec
	}
	return params
}

// MethodAnnotationSchema defines the schema for //api::method annotations
var MethodAnnotationSchema = AnnotationSchema{
	Type:        MethodAnnotation,
	Description: "Marks a method as part of the public API surface",
	Targets:     []TargetKind{MethodTarget},
	MaxArgs:     0,
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//api::method",
	},
}

// DescriptionAnnotationSchema defines the schema for //api::description annotations
var DescriptionAnnotationSchema = AnnotationSchema{
	Type:        DescriptionAnnotation,
	Description: "Attaches human-readable text to a type, method, parameter or return value",
	Targets:     []TargetKind{TypeTarget, MethodTarget},
	MinArgs:     1,
	MaxArgs:     -1,
	Parameters:  targetOptions(),
	Examples: []string{
		`//api::description "Integer arithmetic"`,
		`//api::description Adds two numbers`,
		`//api::description "first operand" -Param=a`,
		`//api::description "the sum" -Return`,
	},
}

// ValidationAnnotationSchema defines the schema for //api::validation annotations
var ValidationAnnotationSchema = AnnotationSchema{
	Type:        ValidationAnnotation,
	Description: "Declares inclusive integer bounds for a parameter or return value",
	Targets:     []TargetKind{MethodTarget},
	MaxArgs:     0,
	Parameters: withTargetOptions(map[string]ParameterSpec{
		"Min": {
			Type:        IntType,
			Description: "Inclusive lower bound",
		},
		"Max": {
			Type:        IntType,
			Description: "Inclusive upper bound",
		},
	}),
	Examples: []string{
		"//api::validation -Param=x -Min=0 -Max=100",
		"//api::validation -Return -Min=1",
	},
}

// RequiredAnnotationSchema defines the schema for //api::required annotations
var RequiredAnnotationSchema = AnnotationSchema{
	Type:        RequiredAnnotation,
	Description: "Declares whether a parameter or return value is required",
	Targets:     []TargetKind{MethodTarget},
	MaxArgs:     0,
	Parameters: withTargetOptions(map[string]ParameterSpec{
		"Value": {
			Type:         BoolType,
			DefaultValue: true,
			Description:  "Whether the value is required (default true)",
		},
	}),
	Examples: []string{
		"//api::required -Param=x",
		"//api::required -Param=y -Value=false",
		"//api::required -Return",
	},
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with the given registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}

	return nil
}

// GetBuiltinSchemas returns all built-in annotation schemas
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		MethodAnnotationSchema,
		DescriptionAnnotationSchema,
		ValidationAnnotationSchema,
		RequiredAnnotationSchema,
	}
}

// ValidateIdentifier checks that a -Param value names a Go identifier
func ValidateIdentifier(v interface{}) error {
	name, _ := v.(string)
	if name == "" {
		return fmt.Errorf("parameter name cannot be empty")
	}
	for i, r := range name {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f
		if letter || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return fmt.Errorf("'%s' is not a valid parameter name", name)
	}
	return nil
}

// ValidateTargetExclusive rejects annotations that name both a parameter and the return value
func ValidateTargetExclusive(annotation *ParsedAnnotation) error {
	if annotation.HasParameter("Param") && annotation.GetBool("Return") {
		return fmt.Errorf("-Param and -Return cannot be combined on //%s%s", AnnotationPrefix, annotation.Type)
	}
	return nil
}

// ValidateTargetRequired rejects annotations that name neither a parameter
// nor the return value; bounds and required flags only exist on those slots.
func ValidateTargetRequired(annotation *ParsedAnnotation) error {
	if !annotation.HasParameter("Param") && !annotation.GetBool("Return") {
		return fmt.Errorf("//%s%s must name a parameter with -Param=<name> or the return value with -Return", AnnotationPrefix, annotation.Type)
	}
	return nil
}

// ValidateRange ensures -Min does not exceed -Max
func ValidateRange(annotation *ParsedAnnotation) error {
	lo, hi := annotation.GetIntPtr("Min"), annotation.GetIntPtr("Max")
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("-Min=%d exceeds -Max=%d", *lo, *hi)
	}
	return nil
}

// init registers custom validators for schemas that need them
func init() {
	DescriptionAnnotationSchema.Validators = []CustomValidator{
		ValidateTargetExclusive,
	}
	ValidationAnnotationSchema.Validators = []CustomValidator{
		ValidateTargetExclusive,
		ValidateTargetRequired,
		ValidateRange,
	}
	RequiredAnnotationSchema.Validators = []CustomValidator{
		ValidateTargetExclusive,
		ValidateTargetRequired,
	}
}
