package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/quakeboard/api/internal/business/quakes"
	"github.com/quakeboard/api/internal/business/theme"
)

// Router wires HTTP handlers.
type Router struct {
	feed     *quakes.FeedStore
	sessions *quakes.Sessions
	themes   *theme.Service
	logger   zerolog.Logger
	origins  []string
}

func NewRouter(feed *quakes.FeedStore, sessions *quakes.Sessions, themes *theme.Service, logger zerolog.Logger, allowedOrigins []string) *gin.Engine {
	r := &Router{
		feed:     feed,
		sessions: sessions,
		themes:   themes,
		logger:   logger,
		origins:  allowedOrigins,
	}

	router := gin.New()
	router.Use(r.requestLogger(), gin.Recovery(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/feed", r.getFeed)
		api.POST("/feed/refresh", r.refreshFeed)

		api.GET("/earthquakes", r.listEarthquakes)
		api.GET("/earthquakes/export", r.exportEarthquakes)
		api.GET("/map", r.getMap)
		api.GET("/stats", r.getStats)
		api.GET("/charts", r.getCharts)

		api.POST("/sessions", r.createSession)
		api.GET("/sessions/:id", r.getSession)
		api.DELETE("/sessions/:id", r.deleteSession)
		api.PUT("/sessions/:id/search", r.setSessionSearch)
		api.PUT("/sessions/:id/filters", r.setSessionFilters)
		api.DELETE("/sessions/:id/filters", r.clearSessionFilters)
		api.POST("/sessions/:id/sentinel", r.signalSessionSentinel)

		api.GET("/theme", r.getTheme)
		api.PUT("/theme", r.setTheme)
		api.POST("/theme/toggle", r.toggleTheme)
	}

	return router
}

func (r *Router) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := r.logger.Info()
		if status >= http.StatusInternalServerError {
			event = r.logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := "*"
		for _, o := range r.origins {
			if o == "*" || strings.EqualFold(o, origin) {
				allowed = origin
				break
			}
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}
