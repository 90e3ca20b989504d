package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/apispec/internal/annotations"
	"github.com/toyz/apispec/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting
type DiagnosticReporter struct {
	verbose   bool
	useColors bool
	out       io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose:   verbose,
		useColors: !color.NoColor,
		out:       os.Stderr,
	}
}

// SetOutput redirects the report and disables colors
func (r *DiagnosticReporter) SetOutput(out io.Writer) {
	r.out = out
	r.useColors = false
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	fmt.Fprintf(r.out, "%s %s\n", r.paint(color.New(color.FgYellow, color.Bold), "!"), message)
	for _, s := range suggestions {
		fmt.Fprintf(r.out, "  hint: %s\n", s)
	}
}

// ReportError prints err with locations, context and suggestions.
// Collections are flattened so each failure gets its own entry.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	failures := flatten(err)

	title := "ERROR: apispec failed"
	if len(failures) > 1 {
		title = fmt.Sprintf("ERROR: apispec failed with %d errors", len(failures))
	}
	fmt.Fprintf(r.out, "\n%s\n%s\n\n", title, strings.Repeat("=", len(title)))

	for i, failure := range failures {
		if len(failures) > 1 {
			fmt.Fprintf(r.out, "[%d/%d] ", i+1, len(failures))
		}
		r.reportOne(failure)
	}

	if !r.verbose {
		fmt.Fprintf(r.out, "Run with --verbose for more detailed output\n")
	}
	fmt.Fprintln(r.out)
}

func (r *DiagnosticReporter) reportOne(err error) {
	var annErr annotations.AnnotationError
	if stderrors.As(err, &annErr) {
		r.printHeader(annotationTitle(annErr.Code()))
		fmt.Fprintf(r.out, "Message: %s\n", annErr.Error())
		fmt.Fprintf(r.out, "Location: %s\n", annErr.Location())
		if hint := annErr.Suggestion(); hint != "" {
			r.printSuggestions([]string{hint})
		}
		fmt.Fprintln(r.out)
		return
	}

	var apiErr errors.APIError
	if stderrors.As(err, &apiErr) {
		r.printHeader(apiErr.ErrorCode().String())
		fmt.Fprintf(r.out, "Message: %s\n", apiErr.Error())
		if loc := apiErr.Location(); !loc.IsEmpty() {
			fmt.Fprintf(r.out, "Location: %s\n", loc)
		}
		if r.verbose {
			r.printContext(apiErr.Context())
			r.printChain(apiErr.Unwrap())
		}
		r.printSuggestions(apiErr.Suggestions())
		fmt.Fprintln(r.out)
		return
	}

	r.printHeader("Error")
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
}

func (r *DiagnosticReporter) printHeader(kind string) {
	fmt.Fprintf(r.out, "%s\n", r.paint(color.New(color.FgRed, color.Bold), kind))
}

func (r *DiagnosticReporter) paint(c *color.Color, s string) string {
	if !r.useColors {
		return s
	}
	return c.Sprint(s)
}

// printContext prints context keys in sorted order
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	if len(context) == 0 {
		return
	}

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

func (r *DiagnosticReporter) printChain(cause error) {
	if cause == nil {
		return
	}
	fmt.Fprintf(r.out, "Error chain:\n")
	for level := 1; cause != nil; level++ {
		fmt.Fprintf(r.out, "   %d. %s\n", level, cause.Error())
		cause = stderrors.Unwrap(cause)
	}
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
}

// flatten expands error collections, including annotation errors nested in
// a wrapped parse error, into individual failures
func flatten(err error) []error {
	switch e := err.(type) {
	case *errors.MultipleErrors:
		var out []error
		for _, inner := range e.Errors {
			out = append(out, flatten(inner)...)
		}
		return out
	case *annotations.MultipleAnnotationErrors:
		out := make([]error, len(e.Errors))
		for i, inner := range e.Errors {
			out[i] = inner
		}
		return out
	case *errors.BaseError:
		var multi *annotations.MultipleAnnotationErrors
		if stderrors.As(e.Cause, &multi) {
			return flatten(multi)
		}
		var single annotations.AnnotationError
		if stderrors.As(e.Cause, &single) {
			return []error{single}
		}
	}
	return []error{err}
}

func annotationTitle(code annotations.ErrorCode) string {
	switch code {
	case annotations.SyntaxErrorCode:
		return "Annotation Syntax Error"
	case annotations.ValidationErrorCode:
		return "Annotation Validation Error"
	case annotations.SchemaErrorCode:
		return "Annotation Schema Error"
	case annotations.RegistrationErrorCode:
		return "Annotation Registration Error"
	default:
		return "Annotation Error"
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
