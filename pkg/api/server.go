// Package api provides the HTTP surface: a session-build endpoint and a
// review-submission endpoint on top of Gin.
package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/houshuang/alif/pkg/config"
	"github.com/houshuang/alif/pkg/review"
	"github.com/houshuang/alif/pkg/session"
)

// Server is the HTTP API server.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        config.SystemConfig
	db         *sql.DB
	builder    *session.Builder
	engine     *review.Engine
	registry   *session.Registry
}

// NewServer builds a Server and registers every route. builder and engine
// are the two domain entry points the handlers call into; db backs the
// health check. registry tracks in-flight session builds so a client can
// cancel one mid-build via DELETE /v1/session/:build_id.
func NewServer(cfg config.SystemConfig, db *sql.DB, builder *session.Builder, engine *review.Engine) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), gin.Logger())
	router.Use(securityHeaders())
	router.Use(corsMiddleware(cfg.AllowedCORSOrigins))

	s := &Server{
		router:   router,
		cfg:      cfg,
		db:       db,
		builder:  builder,
		engine:   engine,
		registry: session.NewRegistry(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers every API route.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler)

	v1 := s.router.Group("/v1")
	v1.GET("/session", s.buildSessionHandler)
	v1.DELETE("/session/:build_id", s.cancelSessionHandler)
	v1.POST("/reviews", s.submitReviewHandler)
	v1.POST("/reviews/undo", s.undoReviewHandler)
}

// Start starts the HTTP server on cfg.APIListenAddr (blocking).
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.APIListenAddr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.RequestTimeout,
		WriteTimeout: s.cfg.RequestTimeout,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
