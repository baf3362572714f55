package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"CropInsights/internal/domain"
	"CropInsights/internal/usecase"
)

// NewsHandler serves the news-insight routes.
type NewsHandler struct {
	runner   NewsRunner
	insights InsightReader
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewNewsHandler defaults now to time.Now and loc to UTC. A nil runner keeps
// the read routes working and makes Trigger answer 503.
func NewNewsHandler(runner NewsRunner, insights InsightReader, loc *time.Location, now func() time.Time, logger *slog.Logger) *NewsHandler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &NewsHandler{runner: runner, insights: insights, location: loc, now: now, logger: logger}
}

// Trigger runs the pipeline for ?date= or, when absent, yesterday.
func (h *NewsHandler) Trigger(c *gin.Context) {
	day, err := usecase.ResolveDate(c.Query("date"), h.now(), h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date. Expected YYYY-MM-DD."})
		return
	}

	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "News processing is not configured."})
		return
	}

	stats, err := h.runner.Run(c.Request.Context(), day)
	if err != nil {
		h.logger.Error("news processing failed", "date", domain.DateKey(day), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "News processing failed."})
		return
	}

	c.JSON(http.StatusOK, TriggerResponse{
		Message:          "News processing completed.",
		InsightsSaved:    stats.Date,
		TotalArticles:    stats.TotalArticles,
		RelevantArticles: stats.RelevantCount,
		InsightsCount:    stats.InsightCount,
	})
}

// GetInsights returns the stored bundle for :date.
func (h *NewsHandler) GetInsights(c *gin.Context) {
	date := c.Param("date")
	if _, err := domain.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date. Expected YYYY-MM-DD."})
		return
	}

	bundle, err := h.insights.Load(c.Request.Context(), date)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No insights available for %s.", date)})
		return
	}
	if err != nil {
		h.logger.Error("error loading insights", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	c.JSON(http.StatusOK, InsightsResponse{Date: date, Results: bundle})
}

// GetDates lists every date with a stored bundle, oldest first.
func (h *NewsHandler) GetDates(c *gin.Context) {
	dates, err := h.insights.ListDates(c.Request.Context())
	if err != nil {
		h.logger.Error("error listing dates", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}
	if dates == nil {
		dates = []string{}
	}
	c.JSON(http.StatusOK, DatesResponse{AvailableDates: dates})
}

// GetLastRun reports the last completed run date, or null before the first one.
func (h *NewsHandler) GetLastRun(c *gin.Context) {
	date, ok, err := h.insights.LastRun(c.Request.Context())
	if err != nil {
		h.logger.Error("error reading last run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	res := LastRunResponse{}
	if ok {
		res.LastExecution = &date
	}
	c.JSON(http.StatusOK, res)
}
