package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/toyz/apispec/internal/errors"
	"github.com/toyz/apispec/pkg/apispec"
)

func sampleDocument() *Document {
	desc := "Shopping cart"
	minQty := 1
	return &Document{
		Module: "example.com/shop",
		Types: []apispec.TypeDescription{{
			Name:        "Cart",
			Package:     "example.com/shop/cart",
			Description: &desc,
			Methods: []apispec.MethodDescription{{
				MethodDescription: apispec.CommonDescription{Name: "Add"},
				ParamDescriptions: []apispec.ParamDescription{{
					ParamDescription: apispec.CommonDescription{Name: "qty"},
					MinValue:         &minQty,
				}},
			}},
		}},
	}
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "json", sampleDocument()))

	out := buf.String()
	assert.Contains(t, out, "\n  \"module\": \"example.com/shop\"")
	assert.Contains(t, out, `"minValue": 1`)
	assert.NotContains(t, out, "maxValue", "absent bounds are omitted")
	assert.NotContains(t, out, "returnDescription")

	var decoded Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleDocument(), &decoded)
}

func TestEncode_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "yaml", sampleDocument()))

	out := buf.String()
	assert.Contains(t, out, "module: example.com/shop\n")
	assert.Contains(t, out, "minValue: 1")
	assert.NotContains(t, out, "maxValue")

	var decoded Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleDocument(), &decoded)
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, "xml", sampleDocument())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.EncodingErrorCode))
	assert.Contains(t, err.Error(), "unsupported format: xml")
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()

	var stdout bytes.Buffer
	require.NoError(t, WriteOutput(&stdout, "-", "json", sampleDocument()))
	assert.Contains(t, stdout.String(), "example.com/shop")

	path := filepath.Join(dir, "api.yaml")
	require.NoError(t, WriteOutput(&stdout, path, "yaml", sampleDocument()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Cart")

	err = WriteOutput(&stdout, filepath.Join(dir, "missing", "api.json"), "json", sampleDocument())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.FileSystemErrorCode))
	assert.Contains(t, err.Error(), "does not exist")
}
