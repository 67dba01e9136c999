package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oggyb/swipe-api/internal/app"
	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/middleware"
	"github.com/oggyb/swipe-api/internal/validation"
)

const healthTimeout = 2 * time.Second

// NewRouter builds the gin engine with the shared middleware chain, the
// public /health probe and every registrar mounted under /api.
func NewRouter(appCtx *app.AppContext, registrars ...Registrar) *gin.Engine {
	if appCtx.Config.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Register()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		cors.New(corsConfig(appCtx.Config.CORS.AllowOrigins)),
	)

	health := healthHandler(appCtx)
	r.GET("/health", health)
	r.HEAD("/health", health)

	api := r.Group("/api")
	for _, reg := range registrars {
		reg.Register(api)
	}

	r.NoRoute(func(c *gin.Context) {
		svcErr.Write(c, svcErr.NotFound("Route not found"))
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func healthHandler(appCtx *app.AppContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		sqlDB, err := appCtx.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			appCtx.Logger.Warn("health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
}

func NewServer(appCtx *app.AppContext, handler http.Handler) *Server {
	cfg := appCtx.Config.HTTP
	return &Server{
		httpServer: &http.Server{
			Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Handler:        handler,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
	}
}

func (s *Server) Addr() string { return s.httpServer.Addr }

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
