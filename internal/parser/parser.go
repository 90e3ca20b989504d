package parser

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/toyz/apispec/internal/annotations"
	"github.com/toyz/apispec/internal/models"
	"github.com/toyz/apispec/internal/utils"
	"github.com/toyz/apispec/pkg/apispec"
)

// unnamedParamFormat names parameters that have no usable identifier
const unnamedParamFormat = "arg%d"

// AnnotationParser defines the interface for extracting API metadata from Go source
type AnnotationParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
}

// Parser implements the AnnotationParser interface
type Parser struct {
	reader *utils.FileReader
	engine annotations.ParserEngine
}

// NewParser creates a parser using the builtin annotation schemas
func NewParser() *Parser {
	return NewParserWithReader(utils.NewFileReader())
}

// NewParserWithReader creates a parser that shares a FileReader (and its cache)
func NewParserWithReader(reader *utils.FileReader) *Parser {
	return &Parser{
		reader: reader,
		engine: annotations.NewParser(annotations.DefaultRegistry()),
	}
}

// ParseSource parses a single in-memory file
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := p.reader.ParseGoSource(filename, source)
	if err != nil {
		return nil, err
	}
	return p.parseFiles(filepath.Dir(filename), []*ast.File{file})
}

// ParseDirectory parses the non-test Go files of one package directory
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	names, err := utils.GoFiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list Go files in %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no Go files found in directory %s", path)
	}

	files := make([]*ast.File, 0, len(names))
	for _, name := range names {
		file, err := p.reader.ParseGoFile(name)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return p.parseFiles(path, files)
}

// parseFiles builds package metadata from files already sorted by name
func (p *Parser) parseFiles(dir string, files []*ast.File) (*models.PackageMetadata, error) {
	packageName := files[0].Name.Name
	for _, file := range files[1:] {
		if file.Name.Name != packageName {
			return nil, fmt.Errorf("multiple packages found in directory %s: %s and %s", dir, packageName, file.Name.Name)
		}
	}

	b := &builder{
		fset:   p.reader.FileSet(),
		engine: p.engine,
		errs:   &annotations.MultipleAnnotationErrors{},
		types:  make(map[string]*apispec.TypeMetadata),
		embeds: make(map[string][]string),
	}

	// Top-level declarations only; pruning at each match keeps local types out.
	var typeDecls []*ast.GenDecl
	var funcDecls []*ast.FuncDecl
	inspector.New(files).Nodes([]ast.Node{(*ast.GenDecl)(nil), (*ast.FuncDecl)(nil)}, func(n ast.Node, push bool) bool {
		if !push {
			return false
		}
		switch decl := n.(type) {
		case *ast.GenDecl:
			if decl.Tok == token.TYPE {
				typeDecls = append(typeDecls, decl)
			}
		case *ast.FuncDecl:
			funcDecls = append(funcDecls, decl)
		}
		return false
	})

	// Methods may precede their receiver's declaration, so types go first.
	for _, decl := range typeDecls {
		b.collectTypes(decl)
	}
	for _, decl := range funcDecls {
		b.collectMethod(decl)
	}
	b.promoteEmbedded()

	if err := b.errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: dir,
		Types:       b.order,
	}, nil
}

type builder struct {
	fset   *token.FileSet
	engine annotations.ParserEngine
	errs   *annotations.MultipleAnnotationErrors
	types  map[string]*apispec.TypeMetadata
	order  []*apispec.TypeMetadata
	embeds map[string][]string // type name -> embedded same-package type names
}

func (b *builder) collectTypes(decl *ast.GenDecl) {
	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok || typeSpec.Assign.IsValid() {
			continue
		}

		doc := typeSpec.Doc
		if doc == nil && !decl.Lparen.IsValid() {
			doc = decl.Doc
		}

		t := &apispec.TypeMetadata{Name: typeSpec.Name.Name}
		for _, ann := range b.parseDoc(doc, t.Name, annotations.TypeTarget) {
			t.Markers = append(t.Markers, toMarker(ann))
		}

		b.types[t.Name] = t
		b.order = append(b.order, t)

		switch typ := typeSpec.Type.(type) {
		case *ast.StructType:
			b.collectEmbeds(t.Name, typ.Fields)
		case *ast.InterfaceType:
			b.collectInterface(t, typ)
		}
	}
}

// collectInterface records interface methods as they are declared; the doc
// comment of each method field carries its annotations.
func (b *builder) collectInterface(t *apispec.TypeMetadata, iface *ast.InterfaceType) {
	if iface.Methods == nil {
		return
	}
	for _, field := range iface.Methods.List {
		fn, isMethod := field.Type.(*ast.FuncType)
		if !isMethod || len(field.Names) == 0 {
			b.rejectAnnotations(field.Doc, "an embedded element of interface "+t.Name)
			if name := receiverTypeName(field.Type); name != "" {
				b.embeds[t.Name] = append(b.embeds[t.Name], name)
			}
			continue
		}
		for _, name := range field.Names {
			b.addMethod(t, name, field.Doc, fn)
		}
	}
}

// collectEmbeds records anonymous struct fields naming a type of this package
func (b *builder) collectEmbeds(typeName string, fields *ast.FieldList) {
	if fields == nil {
		return
	}
	for _, field := range fields.List {
		b.rejectAnnotations(field.Doc, "a field of struct "+typeName)
		if len(field.Names) > 0 {
			continue
		}
		if name := receiverTypeName(field.Type); name != "" {
			b.embeds[typeName] = append(b.embeds[typeName], name)
		}
	}
}

func (b *builder) collectMethod(fn *ast.FuncDecl) {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		b.rejectAnnotations(fn.Doc, "function "+fn.Name.Name)
		return
	}
	t, ok := b.types[receiverTypeName(fn.Recv.List[0].Type)]
	if !ok {
		b.rejectAnnotations(fn.Doc, "method "+fn.Name.Name+" of an unknown receiver type")
		return
	}
	b.addMethod(t, fn.Name, fn.Doc, fn.Type)
}

func (b *builder) addMethod(t *apispec.TypeMetadata, ident *ast.Ident, doc *ast.CommentGroup, fn *ast.FuncType) {
	target := t.Name + "." + ident.Name
	anns := b.parseDoc(doc, target, annotations.MethodTarget)

	if !ident.IsExported() {
		for _, ann := range anns {
			b.errs.Add(annotations.NewSchemaError(
				fmt.Sprintf("//%s%s on unexported method %s", annotations.AnnotationPrefix, ann.Type, target),
				ann.Location,
				"Only exported methods are part of an API; export the method or remove the annotation",
			))
		}
		return
	}

	m := apispec.MethodMetadata{
		Name:   ident.Name,
		Params: paramsOf(fn.Params),
	}
	hasResults := fn.Results != nil && len(fn.Results.List) > 0

	for _, ann := range anns {
		marker := toMarker(ann)
		switch {
		case ann.HasParameter("Param"):
			name := ann.GetString("Param")
			param, found := m.Param(name)
			if !found {
				b.errs.Add(annotations.NewSchemaError(
					fmt.Sprintf("method %s has no parameter '%s'", target, name),
					ann.Location,
					paramHint(m.Params),
				))
				continue
			}
			param.Markers = append(param.Markers, marker)
		case ann.GetBool("Return"):
			if !hasResults {
				b.errs.Add(annotations.NewSchemaError(
					fmt.Sprintf("method %s has no return value", target),
					ann.Location,
					"Remove -Return or declare a result",
				))
				continue
			}
			m.Return = append(m.Return, marker)
		default:
			m.Markers = append(m.Markers, marker)
		}
	}

	t.Methods = append(t.Methods, m)
}

// promoteEmbedded appends the methods promoted from embedded types of the
// same package, after each type's own methods. Embedded types are searched
// breadth first: a shallower method shadows deeper ones, and a name found
// twice at the same depth is ambiguous and not promoted.
func (b *builder) promoteEmbedded() {
	declared := make(map[string][]apispec.MethodMetadata, len(b.order))
	for _, t := range b.order {
		declared[t.Name] = t.Methods[:len(t.Methods):len(t.Methods)]
	}

	for _, t := range b.order {
		seen := make(map[string]bool, len(t.Methods))
		for _, m := range t.Methods {
			seen[m.Name] = true
		}
		visited := map[string]bool{t.Name: true}

		for level := b.embeds[t.Name]; len(level) > 0; {
			var next, names []string
			found := make(map[string]apispec.MethodMetadata)
			count := make(map[string]int)

			for _, name := range level {
				if visited[name] {
					continue
				}
				visited[name] = true
				if _, ok := b.types[name]; !ok {
					continue
				}
				for _, m := range declared[name] {
					if count[m.Name] == 0 {
						found[m.Name] = m
						names = append(names, m.Name)
					}
					count[m.Name]++
				}
				next = append(next, b.embeds[name]...)
			}

			for _, name := range names {
				if seen[name] {
					continue
				}
				seen[name] = true
				if count[name] == 1 {
					t.Methods = append(t.Methods, found[name].Clone())
				}
			}
			level = next
		}
	}
}

// parseDoc parses every //api:: line of a doc comment, collecting failures
func (b *builder) parseDoc(doc *ast.CommentGroup, target string, kind annotations.TargetKind) []*annotations.ParsedAnnotation {
	if doc == nil {
		return nil
	}

	var out []*annotations.ParsedAnnotation
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}

		pos := b.fset.Position(comment.Slash)
		loc := annotations.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}

		parsed, err := b.engine.ParseAnnotation(comment.Text, loc)
		if err != nil {
			b.addError(err, loc)
			continue
		}
		parsed.Target = target

		if err := b.engine.CheckTarget(parsed, kind); err != nil {
			b.addError(err, loc)
			continue
		}
		out = append(out, parsed)
	}
	return out
}

// rejectAnnotations reports every //api:: line of doc; what names a place
// that cannot carry annotations.
func (b *builder) rejectAnnotations(doc *ast.CommentGroup, what string) {
	if doc == nil {
		return
	}
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		pos := b.fset.Position(comment.Slash)
		b.errs.Add(annotations.NewSchemaError(
			fmt.Sprintf("annotation cannot be attached to %s", what),
			annotations.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column},
			"Annotate the type or one of its methods instead",
		))
	}
}

func (b *builder) addError(err error, loc annotations.SourceLocation) {
	var multi *annotations.MultipleAnnotationErrors
	if errors.As(err, &multi) {
		b.errs.Errors = append(b.errs.Errors, multi.Errors...)
		return
	}
	var annErr annotations.AnnotationError
	if errors.As(err, &annErr) {
		b.errs.Add(annErr)
		return
	}
	b.errs.Add(annotations.NewSyntaxError(err.Error(), loc, ""))
}

func toMarker(ann *annotations.ParsedAnnotation) apispec.Marker {
	switch ann.Type {
	case annotations.DescriptionAnnotation:
		return apispec.Description{Text: ann.Text()}
	case annotations.ValidationAnnotation:
		return apispec.Validation{Min: ann.GetIntPtr("Min"), Max: ann.GetIntPtr("Max")}
	case annotations.RequiredAnnotation:
		return apispec.Required{Value: ann.GetBool("Value", true)}
	default:
		return apispec.APIMethod{}
	}
}

// receiverTypeName unwraps *T, T[P] and (*T) down to the type name
func receiverTypeName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return receiverTypeName(e.X)
	case *ast.ParenExpr:
		return receiverTypeName(e.X)
	case *ast.IndexExpr:
		return receiverTypeName(e.X)
	case *ast.IndexListExpr:
		return receiverTypeName(e.X)
	default:
		return ""
	}
}

func paramsOf(fields *ast.FieldList) []apispec.ParamMetadata {
	if fields == nil {
		return nil
	}

	var params []apispec.ParamMetadata
	for _, field := range fields.List {
		if len(field.Names) == 0 {
			params = append(params, apispec.ParamMetadata{Name: fmt.Sprintf(unnamedParamFormat, len(params))})
			continue
		}
		for _, name := range field.Names {
			paramName := name.Name
			if paramName == "_" {
				paramName = fmt.Sprintf(unnamedParamFormat, len(params))
			}
			params = append(params, apispec.ParamMetadata{Name: paramName})
		}
	}
	return params
}

func paramHint(params []apispec.ParamMetadata) string {
	if len(params) == 0 {
		return "The method takes no parameters"
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return "Parameters: " + strings.Join(names, ", ")
}
