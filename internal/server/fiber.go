package server

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// FiberAdapter wraps a Fiber app to implement WebServer
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter(app *fiber.App) *FiberAdapter {
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a Fiber adapter encoding with go-json
func NewDefaultFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
		},
	})
	app.Use(recover.New())
	return NewFiberAdapter(app)
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method, path string, handler HandlerFunc) {
	fa.app.Add(method, path, func(c *fiber.Ctx) error {
		return handler(&fiberRequestContext{ctx: c})
	})
}

// Handler adapts the Fiber app to net/http
func (fa *FiberAdapter) Handler() http.Handler {
	return adaptor.FiberApp(fa.app)
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the Fiber server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

type fiberRequestContext struct {
	ctx    *fiber.Ctx
	status int
}

func (c *fiberRequestContext) Method() string               { return c.ctx.Method() }
func (c *fiberRequestContext) Path() string                 { return c.ctx.Path() }
func (c *fiberRequestContext) Param(key string) string      { return c.ctx.Params(key) }
func (c *fiberRequestContext) QueryParam(key string) string { return c.ctx.Query(key) }
func (c *fiberRequestContext) Header(key string) string     { return c.ctx.Get(key) }
func (c *fiberRequestContext) SetHeader(key, value string)  { c.ctx.Set(key, value) }
func (c *fiberRequestContext) Get(key string) interface{}   { return c.ctx.Locals(key) }
func (c *fiberRequestContext) Set(key string, val interface{}) {
	c.ctx.Locals(key, val)
}

func (c *fiberRequestContext) JSON(code int, v interface{}) error {
	c.status = code
	return c.ctx.Status(code).JSON(v)
}

func (c *fiberRequestContext) Status() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
