// Package api exposes the screening pipeline over HTTP.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/companion-safety/internal/config"
	"github.com/jonesrussell/companion-safety/internal/logger"
	"github.com/jonesrussell/companion-safety/internal/telemetry"
)

// NewRouter builds the gin engine with health, metrics, and the protected
// v1 API group.
func NewRouter(handler *Handler, cfg *config.Config, log logger.Logger, tp *telemetry.Provider) *gin.Engine {
	if !cfg.Service.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": cfg.Service.Name,
			"version": cfg.Service.Version,
		})
	})
	router.GET("/ready", handler.ReadyCheck)

	if tp != nil {
		router.GET("/metrics", gin.WrapH(tp.Handler()))
	}

	v1 := router.Group("/api/v1")
	if cfg.Auth.JWTSecret != "" {
		v1.Use(JWTAuth(cfg.Auth.JWTSecret))
	}
	v1.POST("/screen", handler.Screen)

	return router
}

// NewServer wraps the router in an http.Server with the configured
// timeouts.
func NewServer(router *gin.Engine, cfg *config.Config) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:      router,
		ReadTimeout:  cfg.Service.ReadTimeout,
		WriteTimeout: cfg.Service.WriteTimeout,
	}
}
