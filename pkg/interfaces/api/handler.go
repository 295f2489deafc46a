package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/qadash/pkg/application/services/dashboard"
	"github.com/vsinha/qadash/pkg/domain/repositories"
	"github.com/vsinha/qadash/pkg/infrastructure/export"
)

// Handler serves the dashboard JSON API
type Handler struct {
	dashboard *dashboard.Service
	repo      repositories.BatchRepository
	exporter  *export.Exporter
	downloads *exportDownloadStore
	logger    *slog.Logger
}

// NewHandler creates an API handler
func NewHandler(service *dashboard.Service, repo repositories.BatchRepository, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dashboard: service,
		repo:      repo,
		exporter:  export.NewExporter(),
		downloads: newExportDownloadStore(),
		logger:    logger,
	}
}

// RegisterRoutes registers the API routes on router
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	// Filter state
	router.GET("/filters", h.GetFilters)
	router.PUT("/filters/vendors", h.SetVendors)
	router.PUT("/filters/shifts", h.SetShifts)
	router.PUT("/filters/date-option", h.SetDateOption)
	router.PUT("/filters/custom-range", h.SetCustomRange)
	router.PUT("/filters/drilldown", h.SetDrilldown)
	router.PUT("/filters/categories", h.SetCategories)
	router.POST("/filters/reset", h.ResetFilters)
	router.GET("/filters/history", h.GetFilterHistory)

	// Aggregations
	router.GET("/metrics", h.ListMetrics)
	router.GET("/metrics/:metric/scalar", h.GetScalar)
	router.GET("/metrics/:metric/vendors", h.GetByVendor)
	router.GET("/metrics/:metric/periods", h.GetByPeriod)
	router.GET("/drilldown", h.GetDrilldown)
	router.GET("/health", h.GetHealth)
	router.GET("/alerts", h.GetAlerts)

	// Export
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}

// StatusResponse reports readiness and store size
type StatusResponse struct {
	Initialized bool     `json:"initialized"`
	Today       string   `json:"today"`
	Records     int      `json:"records"`
	Series      []string `json:"series"`
}

// GetStatus reports whether the dashboard is ready
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	series := make([]string, 0)
	for _, name := range h.repo.GetSeriesNames() {
		series = append(series, string(name))
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized: h.dashboard.Filters().Ready(),
		Today:       h.dashboard.Filters().Today().Format("2006-01-02"),
		Records:     h.repo.Count(),
		Series:      series,
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dashboard.ErrUnknownMetric):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
