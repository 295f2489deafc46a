package dto

import (
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
)

// DashboardSnapshot is every dashboard view computed from one filter snapshot
type DashboardSnapshot struct {
	ID          string                 `json:"id"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Today       string                 `json:"today"`
	Filters     entities.FilterState   `json:"filters"`
	Metrics     []MetricSummary        `json:"metrics"`
	Drilldown   []entities.BatchDetail `json:"drilldown"`
	Health      []entities.HealthIndex `json:"health"`
	Alerts      []entities.Alert       `json:"alerts"`
}

// MetricSummary holds the stat card, vendor comparison and monthly trend of one metric
type MetricSummary struct {
	Name     entities.MetricName   `json:"name"`
	Label    string                `json:"label"`
	Unit     string                `json:"unit"`
	Category entities.Category     `json:"category"`
	Min      float64               `json:"min"`
	Max      float64               `json:"max"`
	Scalar   entities.Scalar       `json:"scalar"`
	InRange  bool                  `json:"inRange"`
	ByVendor entities.VendorSeries `json:"byVendor"`
	Monthly  entities.PeriodSeries `json:"monthly"`
}

// MetricInfo describes a catalog metric for clients
type MetricInfo struct {
	Name     entities.MetricName `json:"name"`
	Label    string              `json:"label"`
	Unit     string              `json:"unit"`
	Category entities.Category   `json:"category"`
	Series   entities.SeriesName `json:"series"`
	Min      float64             `json:"min"`
	Max      float64             `json:"max"`
}

// NewMetricInfo converts a catalog metric
func NewMetricInfo(m entities.Metric) MetricInfo {
	return MetricInfo{
		Name:     m.Name,
		Label:    m.Label,
		Unit:     m.Unit,
		Category: m.Category,
		Series:   m.Series,
		Min:      m.Min,
		Max:      m.Max,
	}
}
