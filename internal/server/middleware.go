package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/apispec/internal/utils"
)

// RequestIDHeader carries the request identifier in both directions
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID echoes an incoming X-Request-ID or assigns a new UUID
func RequestID() MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx RequestContext) error {
			id := ctx.Header(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			ctx.Set(requestIDKey, id)
			ctx.SetHeader(RequestIDHeader, id)
			return next(ctx)
		}
	}
}

// RequestIDFrom returns the identifier stored by RequestID
func RequestIDFrom(ctx RequestContext) string {
	id, _ := ctx.Get(requestIDKey).(string)
	return id
}

// ErrorHandler renders returned errors as JSON. HTTPError keeps its status,
// anything else becomes a 500.
func ErrorHandler(diagnostics *utils.DiagnosticSystem) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx RequestContext) error {
			err := next(ctx)
			if err == nil {
				return nil
			}

			code := http.StatusInternalServerError
			message := err.Error()
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				code = httpErr.Code
			} else {
				diagnostics.Error("%s %s: %v", ctx.Method(), ctx.Path(), err)
				message = http.StatusText(code)
			}

			return ctx.JSON(code, ErrorResponse{Error: message, RequestID: RequestIDFrom(ctx)})
		}
	}
}

// RequestLogger logs every request at verbose level
func RequestLogger(diagnostics *utils.DiagnosticSystem) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx RequestContext) error {
			start := time.Now()
			err := next(ctx)
			diagnostics.Verbose("%s %s %d %s [%s]", ctx.Method(), ctx.Path(), ctx.Status(), time.Since(start).Round(time.Microsecond), RequestIDFrom(ctx))
			return err
		}
	}
}
