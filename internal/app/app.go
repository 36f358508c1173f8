package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/modassist/core/internal/config"
	"github.com/modassist/core/internal/middleware"
	"github.com/modassist/core/internal/modules/processing/insight"
	"github.com/modassist/core/internal/modules/processing/knowledge"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg       *config.AppConfig
	router    *gin.Engine
	logger    *zap.Logger
	knowledge *knowledge.Service
	insight   *insight.Service
}

// New initializes the application: config → knowledge service → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	if cfg.RateLimitRPS > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	ks := knowledge.NewService(cfg.KnowledgePath)
	svc := insight.NewService(cfg, logger, ks)

	app := &App{
		cfg:       cfg,
		router:    router,
		logger:    logger,
		knowledge: ks,
		insight:   svc,
	}
	app.registerRoutes()

	if cfg.RetrievalEnabled() {
		if corpus, err := ks.Corpus(); err != nil {
			logger.Warn("knowledge base not loadable at startup, requests will fail until fixed",
				zap.String("path", cfg.KnowledgePath), zap.Error(err))
		} else {
			logger.Info("knowledge base loaded",
				zap.String("path", cfg.KnowledgePath), zap.Int("chunks", corpus.ChunkCount))
		}
	}

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }
