package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/auction-watch/internal/version"
)

// Routes are the dependencies of the operator API. Stream and Metrics are
// optional.
type Routes struct {
	Actions     Actions
	Events      EventLog
	Stream      http.Handler
	Metrics     http.Handler
	MetricsPath string
	Logger      *slog.Logger
}

// SetupRouter configures every route of the operator API.
func SetupRouter(r Routes) *gin.Engine {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))

	h := NewHandler(r.Actions, r.Events, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": version.Get(),
		})
	})
	if r.Metrics != nil {
		path := r.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(r.Metrics))
	}

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/services/:name", h.CallService)
		apiGroup.GET("/status", h.GetStatus)
		apiGroup.GET("/accounts/:account/:domain", h.GetDomain)
		apiGroup.GET("/searches", h.ListSearches)
		apiGroup.GET("/searches/:id", h.GetSearch)
		apiGroup.GET("/events", h.GetEvents)
		if r.Stream != nil {
			apiGroup.GET("/events/stream", gin.WrapH(r.Stream))
		}
	}

	return router
}
