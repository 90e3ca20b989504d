package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const calcSource = `package calc

//api::description "Integer arithmetic"
type Calculator struct{}

//api::method
//api::description "Divides a by b"
//api::validation -Param=b -Min=1
//api::required -Param=b
func (c *Calculator) Divide(a, b int) int { return a / b }
`

func writeModule(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"go.mod":       "module example.com/calc\n\ngo 1.25\n",
		"calc/calc.go": calcSource,
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func execute(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Help(t *testing.T) {
	code, stdout, _ := execute("--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "describe")
	assert.Contains(t, stdout, "serve")
	assert.Contains(t, stdout, "schemas")
	assert.Contains(t, stdout, "--config")
}

func TestRun_Schemas(t *testing.T) {
	code, stdout, stderr := execute("schemas")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "//api::method")
	assert.Contains(t, stdout, "//api::validation")
	assert.Contains(t, stdout, "-Min (int)")
}

func TestRun_DescribeJSON(t *testing.T) {
	root := writeModule(t)

	code, stdout, stderr := execute("describe", "--quiet", filepath.Join(root, "..."))
	require.Equal(t, 0, code, stderr)

	var doc struct {
		Module string `json:"module"`
		Types  []struct {
			Name    string `json:"name"`
			Package string `json:"package"`
			Methods []struct {
				ParamDescriptions []struct {
					ParamDescription struct {
						Name string `json:"name"`
					} `json:"paramDescription"`
					MinValue *int  `json:"minValue"`
					Required *bool `json:"required"`
				} `json:"paramDescriptions"`
			} `json:"methods"`
		} `json:"types"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc), stdout)

	assert.Equal(t, "example.com/calc", doc.Module)
	require.Len(t, doc.Types, 1)
	assert.Equal(t, "Calculator", doc.Types[0].Name)
	assert.Equal(t, "example.com/calc/calc", doc.Types[0].Package)
	require.Len(t, doc.Types[0].Methods, 1)

	params := doc.Types[0].Methods[0].ParamDescriptions
	require.Len(t, params, 2)
	assert.Equal(t, "b", params[1].ParamDescription.Name)
	require.NotNil(t, params[1].MinValue)
	assert.Equal(t, 1, *params[1].MinValue)
	require.NotNil(t, params[1].Required)
	assert.True(t, *params[1].Required)
}

func TestRun_DescribeYAMLToFile(t *testing.T) {
	root := writeModule(t)
	out := filepath.Join(t.TempDir(), "api.yaml")

	code, _, stderr := execute("describe", "--format", "yaml", "-o", out, "--module", "example.org/renamed", filepath.Join(root, "calc"))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "Wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "example.org/renamed", doc["module"])
}

func TestRun_ConfigFile(t *testing.T) {
	root := writeModule(t)
	cfgPath := filepath.Join(t.TempDir(), "apispec.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("directories:\n  - "+filepath.Join(root, "...")+"\nformat: yaml\nquiet: true\n"), 0o644))

	code, stdout, stderr := execute("describe", "--config", cfgPath)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "module: example.com/calc")

	// flags override the file
	code, stdout, stderr = execute("describe", "--config", cfgPath, "--format", "json")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"module": "example.com/calc"`)
}

func TestRun_Errors(t *testing.T) {
	root := writeModule(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid format", []string{"describe", "--format", "xml", root}, "invalid configuration value for 'format'"},
		{"invalid engine", []string{"serve", "--engine", "chi", root}, "invalid configuration value for 'server.engine'"},
		{"verbose and quiet", []string{"describe", "--verbose", "--quiet", root}, "cannot be combined with quiet"},
		{"missing config", []string{"describe", "--config", filepath.Join(root, "nope.yaml")}, "nope.yaml"},
		{"no packages", []string{"describe", filepath.Join(t.TempDir(), "...")}, "no Go packages found"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}
