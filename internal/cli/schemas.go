package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/apispec/internal/annotations"
)

// PrintSchemas writes a reference of every registered annotation kind
func PrintSchemas(w io.Writer, registry annotations.AnnotationRegistry) error {
	heading := color.New(color.FgCyan, color.Bold)
	if _, isFile := w.(*os.File); !isFile {
		heading.DisableColor()
	}

	for _, annType := range registry.ListTypes() {
		schema, err := registry.GetSchema(annType)
		if err != nil {
			return err
		}

		targets := make([]string, len(schema.Targets))
		for i, t := range schema.Targets {
			targets[i] = t.String()
		}

		heading.Fprintf(w, "//%s%s\n", annotations.AnnotationPrefix, annType)
		fmt.Fprintf(w, "  %s\n", schema.Description)
		fmt.Fprintf(w, "  Targets: %s\n", strings.Join(targets, ", "))

		if len(schema.Parameters) > 0 {
			names := make([]string, 0, len(schema.Parameters))
			for name := range schema.Parameters {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Fprintf(w, "  Options:\n")
			for _, name := range names {
				spec := schema.Parameters[name]
				fmt.Fprintf(w, "    -%s (%s)", name, spec.Type)
				if spec.DefaultValue != nil {
					fmt.Fprintf(w, " default %v", spec.DefaultValue)
				}
				fmt.Fprintf(w, ": %s\n", spec.Description)
			}
		}

		if len(schema.Examples) > 0 {
			fmt.Fprintf(w, "  Examples:\n")
			for _, example := range schema.Examples {
				fmt.Fprintf(w, "    %s\n", example)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}
