package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/seo-optimizer/page-analyzer/analyzer"
	"github.com/seo-optimizer/page-analyzer/middleware"
	"github.com/seo-optimizer/page-analyzer/stats"
)

// PageAnalyzer is the part of *analyzer.Analyzer the handlers need.
type PageAnalyzer interface {
	Analyze(ctx context.Context, url string) (*analyzer.AnalysisRecord, error)
}

// Options wires the router. Analyzer is required; the rest may be nil.
type Options struct {
	Analyzer    PageAnalyzer
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *stats.Metrics
	Statistics  *stats.Statistics
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	DevMode  bool
}

type handler struct {
	analyzer   PageAnalyzer
	statistics *stats.Statistics
	logger     *zap.Logger
	devMode    bool
}

type analyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

// NewRouter builds the HTTP API.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger, opts.Metrics, opts.Statistics))
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.CORS())
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.RateLimit())
	}

	h := &handler{
		analyzer:   opts.Analyzer,
		statistics: opts.Statistics,
		logger:     logger,
		devMode:    opts.DevMode,
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.POST("/analyze", h.analyze)
		api.GET("/statistics", h.statisticsSnapshot)
	}

	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (h *handler) analyze(c *gin.Context) {
	var request analyzeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}

	record, err := h.analyzer.Analyze(c.Request.Context(), request.URL)
	if err != nil {
		var fetchErr *analyzer.FetchError
		switch {
		case errors.Is(err, analyzer.ErrEmptyURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		case errors.As(err, &fetchErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": fetchErr.Error()})
		default:
			h.logger.Error("analysis failed", zap.String("url", request.URL), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze URL"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *handler) statisticsSnapshot(c *gin.Context) {
	if h.statistics == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Statistics are disabled"})
		return
	}
	c.JSON(http.StatusOK, h.statistics.Snapshot(h.devMode))
}
