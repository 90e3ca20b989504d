package server

import (
	"context"
	"net/http"
)

// WebServer defines the contract for web framework implementations
type WebServer interface {
	// RegisterRoute registers handler for method and a ":param" style path
	RegisterRoute(method, path string, handler HandlerFunc)

	// Handler exposes the server as a standard http.Handler
	Handler() http.Handler

	Start(addr string) error
	Stop(ctx context.Context) error

	Name() string
}

// RequestContext provides a framework-agnostic view of one request
type RequestContext interface {
	Method() string
	Path() string

	Param(key string) string
	QueryParam(key string) string
	Header(key string) string

	SetHeader(key, value string)
	JSON(code int, v interface{}) error

	// Status returns the status written by JSON, or 200 before a write
	Status() int

	Get(key string) interface{}
	Set(key string, val interface{})
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// HTTPError represents an HTTP error with status code and message
type HTTPError struct {
	Code    int
	Message string
}

// Error makes HTTPError implement the error interface
func (he *HTTPError) Error() string {
	return he.Message
}

// NewHTTPError creates a new HTTPError instance
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

// chain wraps handler so that the first middleware runs outermost
func chain(handler HandlerFunc, middlewares ...MiddlewareFunc) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
