package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// GinAdapter implements WebServer for Gin. Gin has no shutdown of its own,
// so the engine runs inside an http.Server.
type GinAdapter struct {
	engine *gin.Engine

	mu  sync.Mutex
	srv *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a Gin adapter in release mode with recovery
func NewDefaultGinAdapter() *GinAdapter {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery())
	return NewGinAdapter(g)
}

// RegisterRoute registers a route with the Gin engine
func (ga *GinAdapter) RegisterRoute(method, path string, handler HandlerFunc) {
	ga.engine.Handle(method, path, func(c *gin.Context) {
		if err := handler(&ginRequestContext{ctx: c}); err != nil {
			_ = c.Error(err)
		}
	})
}

// Handler returns the Gin engine as an http.Handler
func (ga *GinAdapter) Handler() http.Handler {
	return ga.engine
}

// Start starts the server and blocks until it stops
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	ga.srv = &http.Server{Addr: addr, Handler: ga.engine}
	srv := ga.srv
	ga.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (ga *GinAdapter) Stop(ctx context.Context) error {
	ga.mu.Lock()
	srv := ga.srv
	ga.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

type ginRequestContext struct {
	ctx    *gin.Context
	status int
}

func (c *ginRequestContext) Method() string               { return c.ctx.Request.Method }
func (c *ginRequestContext) Path() string                 { return c.ctx.Request.URL.Path }
func (c *ginRequestContext) Param(key string) string      { return c.ctx.Param(key) }
func (c *ginRequestContext) QueryParam(key string) string { return c.ctx.Query(key) }
func (c *ginRequestContext) Header(key string) string     { return c.ctx.GetHeader(key) }
func (c *ginRequestContext) SetHeader(key, value string)  { c.ctx.Header(key, value) }
func (c *ginRequestContext) Set(key string, val interface{}) {
	c.ctx.Set(key, val)
}

func (c *ginRequestContext) Get(key string) interface{} {
	v, _ := c.ctx.Get(key)
	return v
}

func (c *ginRequestContext) JSON(code int, v interface{}) error {
	c.status = code
	c.ctx.JSON(code, v)
	return nil
}

func (c *ginRequestContext) Status() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
