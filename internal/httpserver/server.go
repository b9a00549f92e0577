// Package httpserver exposes the back-office screens over a JSON HTTP API.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tinytelemetry/backoffice/internal/auth"
	"github.com/tinytelemetry/backoffice/internal/browser"
	"github.com/tinytelemetry/backoffice/internal/model"
	"github.com/tinytelemetry/backoffice/internal/screens"
)

// Server provides an HTTP API over the screen catalog.
type Server struct {
	addr      string
	catalog   *screens.Catalog
	sessions  *auth.SessionStore
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time

	// PageSize is the page size used when a request does not set one.
	PageSize int
	// Geometry is the menu geometry used by /api/menu/position.
	Geometry browser.Geometry
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, catalog *screens.Catalog, sessions *auth.SessionStore) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		catalog:  catalog,
		sessions: sessions,
		ctx:      ctx,
		cancel:   cancel,
		PageSize: model.DefaultPageSize,
		Geometry: browser.DefaultGeometry,
	}
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)

	api := r.Group("/api", s.requireSession())
	api.GET("/screens", s.handleScreens)
	api.GET("/screens/:screen", s.handleTable)
	api.POST("/screens/:screen/records/:id/actions/:action", s.handleAction)
	api.POST("/menu/position", s.handleMenuPosition)
	api.POST("/wallets/adjustments", s.handleAdjustment)
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	s.routes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Str("addr", s.addr).Msg("http server stopped")
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.addr }

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	counts, err := s.catalog.Deps().Store.Counts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read record counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"records": counts,
	})
}
