package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// EchoAdapter implements WebServer for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates an Echo adapter with panic recovery
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	return NewEchoAdapter(e)
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method, path string, handler HandlerFunc) {
	ea.engine.Add(method, path, func(c echo.Context) error {
		return handler(&echoRequestContext{ctx: c})
	})
}

// Handler returns the Echo instance as an http.Handler
func (ea *EchoAdapter) Handler() http.Handler {
	return ea.engine
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

type echoRequestContext struct {
	ctx    echo.Context
	status int
}

func (c *echoRequestContext) Method() string               { return c.ctx.Request().Method }
func (c *echoRequestContext) Path() string                 { return c.ctx.Request().URL.Path }
func (c *echoRequestContext) Param(key string) string      { return c.ctx.Param(key) }
func (c *echoRequestContext) QueryParam(key string) string { return c.ctx.QueryParam(key) }
func (c *echoRequestContext) Header(key string) string     { return c.ctx.Request().Header.Get(key) }
func (c *echoRequestContext) Get(key string) interface{}   { return c.ctx.Get(key) }
func (c *echoRequestContext) Set(key string, val interface{}) {
	c.ctx.Set(key, val)
}

func (c *echoRequestContext) SetHeader(key, value string) {
	c.ctx.Response().Header().Set(key, value)
}

func (c *echoRequestContext) JSON(code int, v interface{}) error {
	c.status = code
	return c.ctx.JSON(code, v)
}

func (c *echoRequestContext) Status() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
