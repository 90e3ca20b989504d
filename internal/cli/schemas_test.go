package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/apispec/internal/annotations"
)

func TestPrintSchemas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSchemas(&buf, annotations.DefaultRegistry()))

	out := buf.String()
	for _, kind := range []string{"//api::method", "//api::description", "//api::validation", "//api::required"} {
		assert.Contains(t, out, kind+"\n")
	}
	assert.Less(t, strings.Index(out, "//api::method"), strings.Index(out, "//api::required"))

	assert.Contains(t, out, "Targets: type, method")
	assert.Contains(t, out, "-Min (int): Inclusive lower bound")
	assert.Contains(t, out, "-Value (bool) default true")
	assert.Contains(t, out, "//api::validation -Param=x -Min=0 -Max=100")
}
