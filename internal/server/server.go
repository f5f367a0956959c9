// Package server exposes the HTTP API: uploads, file listings, organize
// runs with streamed progress, undo, statistics, and the chat assistant.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"thanos/internal/assistant"
	"thanos/internal/catalog"
	"thanos/internal/config"
	"thanos/internal/logging"
	"thanos/internal/organize"
)

// Server wires the HTTP surface to the catalog, organizer, and assistant.
type Server struct {
	cfg       *config.Config
	store     *catalog.Store
	runner    *organize.Runner
	undoer    *organize.Undoer
	assistant *assistant.Assistant
	logger    *slog.Logger
	engine    *gin.Engine
}

// New constructs the server and registers all routes.
func New(
	cfg *config.Config,
	store *catalog.Store,
	runner *organize.Runner,
	undoer *organize.Undoer,
	chat *assistant.Assistant,
	logger *slog.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	s := &Server{
		cfg:       cfg,
		store:     store,
		runner:    runner,
		undoer:    undoer,
		assistant: chat,
		logger:    logging.NewComponentLogger(logger, "server"),
	}
	s.engine = engine
	s.registerRoutes(engine)
	return s
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	api := engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		api.POST("/upload", s.handleUpload)
		api.GET("/files", s.handleListFiles)
		api.GET("/files/:id", s.handleGetFile)
		api.DELETE("/files/:id", s.handleDeleteFile)

		api.POST("/organize", s.handleOrganize)
		api.POST("/organize/undo", s.handleUndo)

		api.GET("/organizations", s.handleListOrganizations)
		api.GET("/organizations/:id", s.handleGetOrganization)

		api.GET("/stats", s.handleStats)
		api.POST("/chat", s.handleChat)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Paths.APIBind,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", logging.String("bind", s.cfg.Paths.APIBind))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
