package server

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/contrib-tracker/internal/contrib"
	"github.com/pfrederiksen/contrib-tracker/internal/logger"
)

// ReadyMessage is served on GET /.
const ReadyMessage = "Git Contribution Tracker is running! Add /<username> to see stats."

// StatsFetcher produces the summary for a user. *scraper.Client implements it.
type StatsFetcher interface {
	Stats(ctx context.Context, username string) (contrib.Stats, error)
}

type handler struct {
	stats StatsFetcher
	log   *logger.Logger
}

// NewRouter wires the HTTP handlers onto a gin engine.
func NewRouter(stats StatsFetcher, log *logger.Logger) *gin.Engine {
	h := &handler{
		stats: stats,
		log:   log,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/", h.root)
	router.GET("/:username", h.getStats)

	return router
}

func (h *handler) root(c *gin.Context) {
	c.String(http.StatusOK, ReadyMessage)
}

func (h *handler) getStats(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	format := strings.ToLower(c.DefaultQuery("format", "text"))
	if format != "text" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "format must be 'text' or 'json'"})
		return
	}

	stats, err := h.stats.Stats(c.Request.Context(), username)
	stats = Settle(username, stats, err)
	if stats.Failed() {
		h.log.Warn("Stats request failed", logger.Fields{
			"username": username,
			"reason":   stats.LastDay,
		})
		c.JSON(http.StatusNotFound, gin.H{"detail": FailureDetail(stats)})
		return
	}

	if format == "json" {
		c.JSON(http.StatusOK, stats)
		return
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, stats); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

// requestLogger logs one structured line per request and feeds request metrics.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		logger.IncrCounter("http.requests")
		logger.RecordTiming("http.latency", latency)

		log.Info("Request handled", logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
	}
}
