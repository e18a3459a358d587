package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shopsync/internal/api/handlers"
	"shopsync/internal/api/middleware"
	"shopsync/internal/config"
	"shopsync/internal/database"
	"shopsync/internal/events"
	"shopsync/internal/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher *events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Initialize handlers
	shopHandler := handlers.NewShopHandler(db.DB, logger, cfg)
	moduleHandler := handlers.NewModuleHandler(db.DB, logger, cfg)
	recordHandler := handlers.NewRecordHandler(db.DB, logger, cfg)
	redirectHandler := handlers.NewRedirectHandler(db.DB, logger, cfg)
	jobHandler := handlers.NewJobHandler(db.DB, logger, publisher)

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Shops
		shops := v1.Group("/shops")
		{
			shops.GET("", shopHandler.List)
			shops.GET("/:id", shopHandler.Get)
			shops.POST("", shopHandler.Create)
			shops.PUT("/:id", shopHandler.Update)
			shops.DELETE("/:id", shopHandler.Delete)
			shops.GET("/:id/stats", shopHandler.Stats)
			shops.POST("/:id/apply-defaults", jobHandler.ApplyDefaults)

			// Remote records, addressed by logical resource name
			shops.GET("/:id/resources/:resource/records", recordHandler.List)
			shops.GET("/:id/resources/:resource/records/:rid", recordHandler.Get)
			shops.PUT("/:id/resources/:resource/records/:rid", recordHandler.Update)
		}

		// Modules
		modules := v1.Group("/modules")
		{
			modules.GET("", moduleHandler.List)
			modules.GET("/:id", moduleHandler.Get)
			modules.POST("", moduleHandler.Create)
			modules.PUT("/:id", moduleHandler.Update)
			modules.DELETE("/:id", moduleHandler.Delete)
			modules.GET("/:id/fields", moduleHandler.Fields)
			modules.PUT("/:id/fields", moduleHandler.SaveFields)
			modules.GET("/:id/rows", moduleHandler.Rows)
		}

		// Redirect rules
		redirectRules := v1.Group("/redirects")
		{
			redirectRules.GET("", redirectHandler.List)
			redirectRules.GET("/:id", redirectHandler.Get)
			redirectRules.POST("", redirectHandler.Create)
			redirectRules.PUT("/:id", redirectHandler.Update)
			redirectRules.DELETE("/:id", redirectHandler.Delete)
			redirectRules.POST("/:id/sync", redirectHandler.Sync)
			redirectRules.POST("/:id/sync-async", jobHandler.SyncRedirect)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router exposes the gin router for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
