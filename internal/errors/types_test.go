package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *BaseError
		want string
	}{
		{
			name: "message only",
			err:  New(ParseErrorCode, "bad input"),
			want: "bad input",
		},
		{
			name: "with location",
			err:  New(AnnotationErrorCode, "bad marker").WithLocation(SourceLocation{File: "a.go", Line: 3, Column: 4}),
			want: "a.go:3:4: bad marker",
		},
		{
			name: "with cause",
			err:  Wrap(FileSystemErrorCode, "failed to read 'x'", fs.ErrNotExist),
			want: "failed to read 'x': file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.go", SourceLocation{File: "a.go"}.String())
	assert.Equal(t, "a.go:2", SourceLocation{File: "a.go", Line: 2}.String())
	assert.Equal(t, "a.go:2:7", SourceLocation{File: "a.go", Line: 2, Column: 7}.String())
}

func TestCodeOf(t *testing.T) {
	notFound := NotFound("type", "Calculator")
	wrapped := fmt.Errorf("lookup: %w", notFound)

	assert.Equal(t, NotFoundErrorCode, CodeOf(wrapped))
	assert.True(t, Is(wrapped, NotFoundErrorCode))
	assert.False(t, Is(wrapped, ParseErrorCode))
	assert.Equal(t, UnknownErrorCode, CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, "Calculator", notFound.Context()["name"])
}

func TestWrappers(t *testing.T) {
	cause := fmt.Errorf("boom")

	fsErr := WrapFileSystemError("read", "/tmp/x", cause)
	assert.Equal(t, FileSystemErrorCode, fsErr.ErrorCode())
	assert.ErrorIs(t, fsErr, cause)
	assert.Equal(t, "/tmp/x", fsErr.Context()["path"])

	cfgErr := WrapConfigurationError("apispec.yaml", "load", cause)
	assert.Equal(t, ConfigurationErrorCode, cfgErr.ErrorCode())
	assert.Contains(t, cfgErr.Error(), "failed to load configuration 'apispec.yaml'")

	modErr := WrapModuleError("/src", cause)
	assert.Equal(t, ModuleErrorCode, modErr.ErrorCode())
	assert.NotEmpty(t, modErr.Suggestions())

	assert.Equal(t, ParseErrorCode, WrapParseError("package", cause).ErrorCode())
	assert.Equal(t, EncodingErrorCode, WrapEncodingError("yaml", cause).ErrorCode())
}

func TestMultipleErrors(t *testing.T) {
	errs := NewMultipleErrors()
	assert.True(t, errs.IsEmpty())
	assert.NoError(t, errs.ErrorOrNil())

	errs.Add(New(ParseErrorCode, "first"))
	assert.Equal(t, "first", errs.Error())

	errs.Add(NotFound("method", "Add"))
	require.Error(t, errs.ErrorOrNil())
	assert.Contains(t, errs.Error(), "multiple errors (2 total)")
	assert.True(t, Is(errs, ParseErrorCode))

	var base *BaseError
	require.ErrorAs(t, errs, &base)
	assert.Equal(t, "first", base.Message)
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "NotFoundError", NotFoundErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}
