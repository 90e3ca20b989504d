package annotations

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaValidator defines the interface for validating annotations against their schemas
type SchemaValidator interface {
	// Validate annotation against its schema
	Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error

	// ApplyDefaults fills in values for options given as bare flags
	ApplyDefaults(annotation *ParsedAnnotation, schema AnnotationSchema) error

	// TransformParameters converts option values to their declared types
	TransformParameters(annotation *ParsedAnnotation, schema AnnotationSchema) error
}

// validator is the concrete implementation of SchemaValidator
type validator struct{}

// NewValidator creates a new schema validator
func NewValidator() SchemaValidator {
	return &validator{}
}

// flagPresent marks an option that was written without a value
type flagPresent struct{}

// Validate validates an annotation against its schema
func (v *validator) Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	errs := &MultipleAnnotationErrors{}

	if n := len(annotation.Args); n < schema.MinArgs {
		errs.Add(&ValidationError{
			Parameter: "text",
			Expected:  fmt.Sprintf("at least %d positional value(s)", schema.MinArgs),
			Actual:    fmt.Sprintf("%d", n),
			Loc:       annotation.Location,
			Hint:      fmt.Sprintf("Add a value after //%s%s", AnnotationPrefix, schema.Type),
		})
	} else if schema.MaxArgs >= 0 && n > schema.MaxArgs {
		errs.Add(&ValidationError{
			Parameter: "text",
			Expected:  fmt.Sprintf("at most %d positional value(s)", schema.MaxArgs),
			Actual:    fmt.Sprintf("%d", n),
			Loc:       annotation.Location,
			Hint:      "Use -Option=value for named values",
		})
	}

	for _, paramName := range sortedKeys(schema.Parameters) {
		paramSpec := schema.Parameters[paramName]
		if !paramSpec.Required {
			continue
		}
		if _, exists := annotation.Parameters[paramName]; !exists {
			errs.Add(&ValidationError{
				Parameter: paramName,
				Expected:  fmt.Sprintf("required option of type %s", paramSpec.Type),
				Actual:    "missing",
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Add -%s=<value> to the annotation", paramName),
			})
		}
	}

	for _, paramName := range sortedKeys(annotation.Parameters) {
		paramValue := annotation.Parameters[paramName]
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			errs.Add(&ValidationError{
				Parameter: paramName,
				Expected:  "known option",
				Actual:    fmt.Sprintf("unknown option '%s'", paramName),
				Loc:       annotation.Location,
				Hint:      suggestOption(paramName, schema),
			})
			continue
		}

		if err := v.validateParameterType(paramName, paramSpec.Type, paramValue, annotation.Location); err != nil {
			errs.Add(err)
			continue
		}

		if paramSpec.Validator != nil {
			if err := paramSpec.Validator(paramValue); err != nil {
				errs.Add(&ValidationError{
					Parameter: paramName,
					Expected:  "valid value",
					Actual:    fmt.Sprintf("%v", paramValue),
					Loc:       annotation.Location,
					Hint:      err.Error(),
				})
			}
		}
	}

	// combination checks only make sense once the individual options are sound
	if !errs.HasErrors() {
		for _, customValidator := range schema.Validators {
			if err := customValidator(annotation); err != nil {
				errs.Add(&SchemaError{
					Msg:  err.Error(),
					Loc:  annotation.Location,
					Hint: "Check annotation options and their combinations",
				})
			}
		}
	}

	return errs.ErrorOrNil()
}

// ApplyDefaults replaces bare flags with the option's default value
func (v *validator) ApplyDefaults(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	if annotation.Parameters == nil {
		annotation.Parameters = make(map[string]interface{})
	}

	for paramName, paramValue := range annotation.Parameters {
		if _, isFlag := paramValue.(flagPresent); !isFlag {
			continue
		}
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			continue
		}
		switch {
		case paramSpec.DefaultValue != nil:
			annotation.Parameters[paramName] = paramSpec.DefaultValue
		case paramSpec.Type == BoolType:
			annotation.Parameters[paramName] = true
		default:
			return &ValidationError{
				Parameter: paramName,
				Expected:  fmt.Sprintf("-%s=<%s>", paramName, paramSpec.Type),
				Actual:    "flag without value",
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Provide a value: -%s=<%s>", paramName, paramSpec.Type),
			}
		}
	}

	return nil
}

// TransformParameters converts option values to their declared types
func (v *validator) TransformParameters(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	for paramName, paramValue := range annotation.Parameters {
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			continue // reported by Validate
		}

		transformedValue, err := v.transformParameterValue(paramValue, paramSpec.Type)
		if err != nil {
			return &ValidationError{
				Parameter: paramName,
				Expected:  fmt.Sprintf("value convertible to %s", paramSpec.Type),
				Actual:    fmt.Sprintf("%v", paramValue),
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Ensure the value can be converted to %s", paramSpec.Type),
			}
		}

		annotation.Parameters[paramName] = transformedValue
	}

	return nil
}

// validateParameterType validates that a parameter value matches the expected type
func (v *validator) validateParameterType(paramName string, expectedType ParameterType, value interface{}, location SourceLocation) AnnotationError {
	var ok bool
	hint := ""
	switch expectedType {
	case StringType:
		_, ok = value.(string)
		hint = "Provide a string value"
	case BoolType:
		_, ok = value.(bool)
		hint = "Use true/false or provide as a flag"
	case IntType:
		_, ok = value.(int)
		hint = "Provide an integer value"
	default:
		return &ValidationError{
			Parameter: paramName,
			Expected:  "known type",
			Actual:    fmt.Sprintf("unknown type %d", expectedType),
			Loc:       location,
			Hint:      "Fix the schema definition",
		}
	}

	if ok {
		return nil
	}
	return &ValidationError{
		Parameter: paramName,
		Expected:  expectedType.String(),
		Actual:    fmt.Sprintf("%T", value),
		Loc:       location,
		Hint:      hint,
	}
}

func (v *validator) transformParameterValue(value interface{}, targetType ParameterType) (interface{}, error) {
	switch targetType {
	case StringType:
		return ConvertToString(value)
	case BoolType:
		return ConvertToBool(value)
	case IntType:
		return ConvertToInt(value)
	default:
		return nil, fmt.Errorf("unsupported target type: %d", targetType)
	}
}

func suggestOption(name string, schema AnnotationSchema) string {
	if len(schema.Parameters) == 0 {
		return fmt.Sprintf("//%s%s takes no options; remove -%s", AnnotationPrefix, schema.Type, name)
	}
	for _, known := range sortedKeys(schema.Parameters) {
		if strings.EqualFold(known, name) {
			return fmt.Sprintf("Did you mean -%s?", known)
		}
	}
	return fmt.Sprintf("Known options for %s: -%s", schema.Type, strings.Join(sortedKeys(schema.Parameters), ", -"))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
