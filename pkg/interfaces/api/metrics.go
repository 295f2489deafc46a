package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/qadash/pkg/application/dto"
	"github.com/vsinha/qadash/pkg/domain/entities"
)

// ListMetrics returns the metric catalog
// GET /api/metrics
func (h *Handler) ListMetrics(c *gin.Context) {
	metrics := h.dashboard.Metrics()
	out := make([]dto.MetricInfo, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, dto.NewMetricInfo(m))
	}
	c.JSON(http.StatusOK, out)
}

// GetScalar returns a metric's stat card value
// GET /api/metrics/:metric/scalar
func (h *Handler) GetScalar(c *gin.Context) {
	scalar, err := h.dashboard.ComputeScalar(entities.MetricName(c.Param("metric")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scalar)
}

// GetByVendor returns a metric's vendor comparison
// GET /api/metrics/:metric/vendors
func (h *Handler) GetByVendor(c *gin.Context) {
	series, err := h.dashboard.ComputeByVendor(entities.MetricName(c.Param("metric")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetByPeriod returns a metric's trend; ?kind=monthly (default) or weekly
// GET /api/metrics/:metric/periods
func (h *Handler) GetByPeriod(c *gin.Context) {
	kind, err := entities.ParsePeriodKind(c.Query("kind"))
	if err != nil {
		badRequest(c, err)
		return
	}

	series, err := h.dashboard.ComputeByPeriod(entities.MetricName(c.Param("metric")), kind)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetDrilldown returns the per-batch breakdown of the drill-down day
// GET /api/drilldown
func (h *Handler) GetDrilldown(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.ComputeDrilldown())
}

// GetAlerts returns the critical alerts, most severe first
// GET /api/alerts
func (h *Handler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.CriticalAlerts())
}

// GetHealth returns the health indices
// GET /api/health
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.HealthIndex())
}
