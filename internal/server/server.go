// Package server exposes the aggregated blog over HTTP as JSON.
package server

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server wires the aggregation cache into a gin router.
type Server struct {
	blog   BlogSource
	router *gin.Engine
}

// New builds the HTTP server around a blog source.
func New(blog BlogSource) *Server {
	gin.SetMode(gin.ReleaseMode)

	// Recovery keeps an unexpected panic from ever reaching the
	// transport as anything but the documented error body.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	s := &Server{blog: blog, router: router}

	router.GET("/api/blog", s.handleBlog)
	router.GET("/api/blog/categories", s.handleCategories)
	router.GET("/healthz", s.handleHealthz)

	return s
}

// Router exposes the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	slog.Info("Starting HTTP server", "addr", addr)
	return s.router.Run(addr)
}
