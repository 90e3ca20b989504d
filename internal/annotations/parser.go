package annotations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParserEngine interface defines the core parsing functionality
type ParserEngine interface {
	// ParseAnnotation parses and validates a single //api:: comment
	ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error)

	// CheckTarget verifies that a parsed annotation may be attached to a declaration kind
	CheckTarget(annotation *ParsedAnnotation, kind TargetKind) error
}

// annotationGrammar is the participle grammar for a single annotation comment
type annotationGrammar struct {
	Kind    string           `parser:"Prefix @Word"`
	Args    []string         `parser:"@(String | Word)*"`
	Options []*optionGrammar `parser:"@@*"`
}

type optionGrammar struct {
	Pos   lexer.Position
	Name  string  `parser:"@Option"`
	Value *string `parser:"( Equals @(String | Word) )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Prefix", Pattern: `//\s*api::`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Option", Pattern: `-[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Word", Pattern: `[^\s"=]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type parser struct {
	grammar   *participle.Parser[annotationGrammar]
	registry  AnnotationRegistry
	validator SchemaValidator
}

// NewParser creates a parser that validates annotations against the schemas in registry
func NewParser(registry AnnotationRegistry) ParserEngine {
	return &parser{
		grammar: participle.MustBuild[annotationGrammar](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.Map(func(t lexer.Token) (lexer.Token, error) {
				t.Value = strings.TrimPrefix(t.Value, "-")
				return t, nil
			}, "Option"),
		),
		registry:  registry,
		validator: NewValidator(),
	}
}

// IsAnnotation reports whether a comment line carries an //api:: annotation
func IsAnnotation(comment string) bool {
	body, ok := strings.CutPrefix(comment, "//")
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(body), AnnotationPrefix)
}

// ParseAnnotation parses an annotation comment and validates it against its schema.
// The returned annotation has no Target; callers set it before CheckTarget.
func (p *parser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	raw := strings.TrimSpace(comment)
	if !IsAnnotation(raw) {
		return nil, NewSyntaxError(
			fmt.Sprintf("comment does not start with //%s", AnnotationPrefix),
			location,
			fmt.Sprintf("Annotations have the form //%s<kind> [text] [-Option=value]", AnnotationPrefix),
		)
	}

	tree, err := p.grammar.ParseString(location.File, raw)
	if err != nil {
		return nil, p.syntaxError(err, location)
	}

	annotationType, err := ParseAnnotationType(tree.Kind)
	if err != nil {
		return nil, NewSyntaxError(
			fmt.Sprintf("unknown annotation kind '%s'", tree.Kind),
			location,
			fmt.Sprintf("Use one of: %s", knownKinds(p.registry)),
		)
	}

	if !p.registry.IsRegistered(annotationType) {
		return nil, NewSchemaError(
			fmt.Sprintf("no schema registered for //%s%s", AnnotationPrefix, annotationType),
			location,
			"Register the builtin schemas before parsing",
		)
	}
	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil, NewSchemaError(err.Error(), location, "")
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Args:       tree.Args,
		Parameters: make(map[string]interface{}, len(tree.Options)),
		Location:   location,
		Raw:        raw,
	}

	for _, opt := range tree.Options {
		if _, dup := parsed.Parameters[opt.Name]; dup {
			return nil, NewValidationError(opt.Name, "option given once", "duplicate option",
				offset(location, opt.Pos), fmt.Sprintf("Remove the repeated -%s", opt.Name))
		}
		if opt.Value == nil {
			parsed.Parameters[opt.Name] = flagPresent{}
			continue
		}
		parsed.Parameters[opt.Name] = *opt.Value
	}

	if err := p.validator.ApplyDefaults(parsed, schema); err != nil {
		return nil, err
	}
	if err := p.validator.TransformParameters(parsed, schema); err != nil {
		return nil, err
	}
	if err := p.validator.Validate(parsed, schema); err != nil {
		return nil, err
	}

	return parsed, nil
}

// CheckTarget verifies that the annotation's schema allows the declaration kind
func (p *parser) CheckTarget(annotation *ParsedAnnotation, kind TargetKind) error {
	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return NewSchemaError(err.Error(), annotation.Location, "Register the builtin schemas before parsing")
	}

	if !schema.AllowsTarget(kind) {
		allowed := make([]string, 0, len(schema.Targets))
		for _, t := range schema.Targets {
			allowed = append(allowed, t.String())
		}
		return NewSchemaError(
			fmt.Sprintf("//%s%s cannot be attached to a %s", AnnotationPrefix, annotation.Type, kind),
			annotation.Location,
			fmt.Sprintf("Move the annotation to a %s declaration", strings.Join(allowed, " or ")),
		)
	}

	if kind == TypeTarget && (annotation.HasParameter("Param") || annotation.GetBool("Return")) {
		return NewSchemaError(
			"-Param and -Return are only valid on method annotations",
			annotation.Location,
			"Move the annotation to the method that declares the parameter",
		)
	}

	return nil
}

func (p *parser) syntaxError(err error, location SourceLocation) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return NewSyntaxError(perr.Message(), offset(location, perr.Position()),
			"Quote text containing '=' or '\"' and put -Options after the text")
	}
	return NewSyntaxError(err.Error(), location, "")
}

// offset maps a position inside the comment onto the file location of the comment
func offset(location SourceLocation, pos lexer.Position) SourceLocation {
	if pos.Column > 0 {
		location.Column += pos.Column - 1
	}
	return location
}

func knownKinds(registry AnnotationRegistry) string {
	types := registry.ListTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
