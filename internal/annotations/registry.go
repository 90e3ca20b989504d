package annotations

import (
	"fmt"
	"sort"
	"sync"
)

// AnnotationRegistry defines the interface for managing annotation schemas
type AnnotationRegistry interface {
	// Register a new annotation type with its schema
	Register(annotationType AnnotationType, schema AnnotationSchema) error

	// GetSchema retrieves the schema for an annotation type
	GetSchema(annotationType AnnotationType) (AnnotationSchema, error)

	// ListTypes returns all registered annotation types in enum order
	ListTypes() []AnnotationType

	// IsRegistered checks if an annotation type is registered
	IsRegistered(annotationType AnnotationType) bool
}

// registry is the concrete implementation of AnnotationRegistry
type registry struct {
	mu      sync.RWMutex                        // Protects concurrent access
	schemas map[AnnotationType]AnnotationSchema // Schema storage
}

// NewRegistry creates a new annotation registry
func NewRegistry() AnnotationRegistry {
	return &registry{
		schemas: make(map[AnnotationType]AnnotationSchema),
	}
}

var (
	defaultRegistry     AnnotationRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global annotation registry with the builtin
// schemas registered.
func DefaultRegistry() AnnotationRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(fmt.Sprintf("annotations: builtin schemas: %v", err))
		}
	})
	return defaultRegistry
}

// Register adds a new annotation type with its schema to the registry
func (r *registry) Register(annotationType AnnotationType, schema AnnotationSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Type != annotationType {
		return &RegistrationError{
			Msg:  fmt.Sprintf("schema type %s does not match annotation type %s", schema.Type, annotationType),
			Hint: "Set AnnotationSchema.Type to the type being registered",
		}
	}

	if _, exists := r.schemas[annotationType]; exists {
		return &RegistrationError{
			Msg:  fmt.Sprintf("annotation type %s is already registered", annotationType),
			Hint: "Register each annotation type once",
		}
	}

	if err := r.validateSchema(schema); err != nil {
		return &RegistrationError{
			Msg:  fmt.Sprintf("invalid schema for %s: %v", annotationType, err),
			Hint: "Fix the schema definition",
		}
	}

	r.schemas[annotationType] = schema
	return nil
}

// GetSchema retrieves the schema for an annotation type
func (r *registry) GetSchema(annotationType AnnotationType) (AnnotationSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[annotationType]
	if !exists {
		return AnnotationSchema{}, fmt.Errorf("annotation type %s is not registered", annotationType)
	}

	return schema, nil
}

// ListTypes returns all registered annotation types
func (r *registry) ListTypes() []AnnotationType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]AnnotationType, 0, len(r.schemas))
	for annotationType := range r.schemas {
		types = append(types, annotationType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// IsRegistered checks if an annotation type is registered
func (r *registry) IsRegistered(annotationType AnnotationType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[annotationType]
	return exists
}

// validateSchema performs basic validation on a schema
func (r *registry) validateSchema(schema AnnotationSchema) error {
	if len(schema.Targets) == 0 {
		return fmt.Errorf("schema must allow at least one target")
	}
	if schema.MaxArgs >= 0 && schema.MinArgs > schema.MaxArgs {
		return fmt.Errorf("MinArgs %d exceeds MaxArgs %d", schema.MinArgs, schema.MaxArgs)
	}

	for paramName, paramSpec := range schema.Parameters {
		if paramName == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}

		if paramSpec.Type < StringType || paramSpec.Type > IntType {
			return fmt.Errorf("invalid parameter type for %s: %d", paramName, paramSpec.Type)
		}

		if paramSpec.DefaultValue != nil {
			if err := validateDefaultValue(paramName, paramSpec.Type, paramSpec.DefaultValue); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateDefaultValue checks if the default value matches the parameter type
func validateDefaultValue(paramName string, paramType ParameterType, defaultValue interface{}) error {
	switch paramType {
	case StringType:
		if _, ok := defaultValue.(string); !ok {
			return fmt.Errorf("default value for string parameter %s must be string, got %T", paramName, defaultValue)
		}
	case BoolType:
		if _, ok := defaultValue.(bool); !ok {
			return fmt.Errorf("default value for bool parameter %s must be bool, got %T", paramName, defaultValue)
		}
	case IntType:
		if _, ok := defaultValue.(int); !ok {
			return fmt.Errorf("default value for int parameter %s must be int, got %T", paramName, defaultValue)
		}
	}

	return nil
}
