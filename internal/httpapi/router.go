package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"

	"CropInsights/internal/domain"
	"CropInsights/internal/logging"
)

// NewsRunner executes the pipeline for one day.
type NewsRunner interface {
	Run(ctx context.Context, day time.Time) (domain.RunStats, error)
}

// InsightReader is the read side of the insight store.
type InsightReader interface {
	Load(ctx context.Context, date string) (domain.InsightBundle, error)
	ListDates(ctx context.Context) ([]string, error)
	LastRun(ctx context.Context) (string, bool, error)
}

// DistrictService answers the district endpoints.
type DistrictService interface {
	Districts() []string
	Historical(district string) (domain.HistoricalSeries, error)
	Predict(ctx context.Context, district string) (domain.YieldPrediction, error)
	AllDistricts() (json.RawMessage, error)
	DistrictMap(district string) (*geojson.FeatureCollection, error)
}

// Deps wires the handlers. Runner may be nil when no language model is
// configured; the trigger then answers 503.
type Deps struct {
	Runner         NewsRunner
	Insights       InsightReader
	Districts      DistrictService
	Location       *time.Location
	Now            func() time.Time
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: deps.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	news := NewNewsHandler(deps.Runner, deps.Insights, deps.Location, deps.Now, logger)
	r.POST("/news/trigger", news.Trigger)
	r.GET("/news/insights/:date", news.GetInsights)
	r.GET("/news/dates", news.GetDates)
	r.GET("/news/last-run", news.GetLastRun)

	districts := NewDistrictHandler(deps.Districts, logger)
	r.GET("/districts", districts.List)
	r.GET("/all-districts", districts.AllDistricts)
	r.GET("/district/:name/historical", districts.Historical)
	r.POST("/district/:name/predict", districts.Predict)
	r.GET("/district/:name/map", districts.Map)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}
