package errors

import "fmt"

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(source, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, source)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("source", source).
		WithContext("operation", operation)
}

// WrapModuleError wraps go.mod resolution errors
func WrapModuleError(dir string, cause error) *BaseError {
	return Wrap(ModuleErrorCode, fmt.Sprintf("failed to resolve module for '%s'", dir), cause).
		WithContext("dir", dir).
		WithSuggestion("Run from inside a Go module or pass --module")
}

// WrapParseError wraps errors produced while reading annotated source
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(ParseErrorCode, fmt.Sprintf("failed to parse %s", item), cause)
}

// WrapEncodingError wraps output encoding errors
func WrapEncodingError(format string, cause error) *BaseError {
	return Wrap(EncodingErrorCode, fmt.Sprintf("failed to encode %s output", format), cause).
		WithContext("format", format)
}

// NotFound creates an error for a missing type, method or package
func NotFound(kind, name string) *BaseError {
	return Newf(NotFoundErrorCode, "%s '%s' not found", kind, name).
		WithContext("kind", kind).
		WithContext("name", name)
}
