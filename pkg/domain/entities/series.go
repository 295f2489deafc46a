package entities

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Scalar is a single summary statistic. HasData is false when nothing matched
// the filters; Value is then 0 and must not be read as a measurement.
type Scalar struct {
	Metric  MetricName `json:"metric"`
	Label   string     `json:"label"`
	Value   float64    `json:"value"`
	HasData bool       `json:"hasData"`
}

// VendorPoint is one bar of a vendor comparison
type VendorPoint struct {
	Vendor  VendorID `json:"vendor"`
	Value   float64  `json:"value"`
	HasData bool     `json:"hasData"`
}

// VendorSeries is ordered as the vendor list it was computed for
type VendorSeries []VendorPoint

// PeriodKind selects the calendar bucket of a trend series
type PeriodKind int

const (
	Monthly PeriodKind = iota
	Weekly
)

// String method for PeriodKind enum
func (k PeriodKind) String() string {
	switch k {
	case Monthly:
		return "monthly"
	case Weekly:
		return "weekly"
	default:
		return "unknown"
	}
}

// ParsePeriodKind parses "monthly"/"month" or "weekly"/"week"
func ParsePeriodKind(s string) (PeriodKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month", "":
		return Monthly, nil
	case "weekly", "week":
		return Weekly, nil
	default:
		return 0, fmt.Errorf("unknown period kind %q", s)
	}
}

// PeriodRow is one point of a multi-line trend: a period and a value per vendor.
// Vendors with no records in the period have no entry.
type PeriodRow struct {
	Label  string
	Start  time.Time
	Values map[VendorID]float64
}

// MarshalJSON flattens the row into the wide chart format
// {"period":"Jan 2026","start":"2026-01-01","Vendor A":12.3,...}
func (r PeriodRow) MarshalJSON() ([]byte, error) {
	wide := make(map[string]any, len(r.Values)+2)
	for vendor, v := range r.Values {
		wide[string(vendor)] = v
	}
	wide["period"] = r.Label
	wide["start"] = r.Start.Format(DateLayout)
	return json.Marshal(wide)
}

// PeriodSeries is ordered chronologically
type PeriodSeries []PeriodRow

// BatchMetric is one metric's reading for a single batch against its cohort baseline
type BatchMetric struct {
	Metric   MetricName `json:"metric"`
	Label    string     `json:"label"`
	Unit     string     `json:"unit"`
	Value    float64    `json:"value"`
	Baseline float64    `json:"baseline"`
	Outlier  bool       `json:"outlier"`
	HasData  bool       `json:"hasData"`
}

// BatchDetail combines every tracked metric for one batch of the drill-down day
type BatchDetail struct {
	BatchID    BatchID       `json:"batchId"`
	Date       time.Time     `json:"-"`
	Shift      Shift         `json:"shift"`
	Metrics    []BatchMetric `json:"metrics"`
	HasOutlier bool          `json:"hasOutlier"`
}

// HealthIndex is the share of metrics inside their tolerance band, as a rounded percentage
type HealthIndex struct {
	Name    string `json:"name"`
	Index   int    `json:"index"`
	InRange int    `json:"inRange"`
	Tracked int    `json:"tracked"`
}
