package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/toyz/apispec/internal/models"
	"github.com/toyz/apispec/internal/utils"
)

// Server serves a catalog's descriptions over HTTP on any supported engine
type Server struct {
	web         WebServer
	handlers    *Handlers
	diagnostics *utils.DiagnosticSystem
	middlewares []MiddlewareFunc
}

// NewWebServer creates the adapter for engine: echo, gin or fiber
func NewWebServer(engine string) (WebServer, error) {
	switch strings.ToLower(engine) {
	case "", "echo":
		return NewDefaultEchoAdapter(), nil
	case "gin":
		return NewDefaultGinAdapter(), nil
	case "fiber":
		return NewDefaultFiberAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported engine '%s' (expected echo, gin or fiber)", engine)
	}
}

// New creates a server for catalog and registers every route
func New(catalog *models.Catalog, engine string, diagnostics *utils.DiagnosticSystem) (*Server, error) {
	web, err := NewWebServer(engine)
	if err != nil {
		return nil, err
	}
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}

	s := &Server{
		web:         web,
		handlers:    NewHandlers(catalog),
		diagnostics: diagnostics,
	}
	s.Use(RequestID())
	s.Use(RequestLogger(diagnostics))
	s.Use(ErrorHandler(diagnostics))
	s.registerRoutes()

	return s, nil
}

// Use appends middleware applied to routes registered afterwards
func (s *Server) Use(middleware MiddlewareFunc) {
	s.middlewares = append(s.middlewares, middleware)
}

func (s *Server) registerRoutes() {
	s.route(http.MethodGet, "/healthz", s.handlers.Health)
	s.route(http.MethodGet, "/types", s.handlers.ListTypes)
	s.route(http.MethodGet, "/types/:type", s.handlers.GetType)
	s.route(http.MethodGet, "/types/:type/methods/:method", s.handlers.GetMethod)
	s.route(http.MethodGet, "/types/:type/methods/:method/params/:param", s.handlers.GetParam)
}

func (s *Server) route(method, path string, handler HandlerFunc) {
	s.diagnostics.Debug("Registering %s %s on %s", method, path, s.web.Name())
	s.web.RegisterRoute(method, path, chain(handler, s.middlewares...))
}

// Handler exposes the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.web.Handler()
}

// Engine returns the name of the underlying framework
func (s *Server) Engine() string {
	return s.web.Name()
}

// Start listens on addr and blocks until the server stops
func (s *Server) Start(addr string) error {
	s.diagnostics.Info("Serving descriptions on %s (%s)", addr, s.web.Name())
	if err := s.web.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.diagnostics.Info("Shutting down server...")
	return s.web.Stop(ctx)
}
