package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/qadash/pkg/domain/entities"
)

// Alert thresholds, as the distance outside the band relative to the band width
var (
	HighSeverityExcess   = decimal.NewFromFloat(0.5)
	MediumSeverityExcess = decimal.NewFromFloat(0.1)
)

// AlertSeverity grades a value against the metric's tolerance band. It reports
// false for values inside the band, bounds included.
func AlertSeverity(metric entities.Metric, value float64) (entities.Severity, bool) {
	if !isFinite(value) || metric.InRange(value) {
		return entities.SeverityLow, false
	}

	v := decimal.NewFromFloat(value)
	lo := decimal.NewFromFloat(metric.Min)
	hi := decimal.NewFromFloat(metric.Max)

	excess := lo.Sub(v)
	if v.GreaterThan(hi) {
		excess = v.Sub(hi)
	}
	width := hi.Sub(lo)
	if !width.IsPositive() {
		return entities.SeverityHigh, true
	}

	switch ratio := excess.Div(width); {
	case ratio.GreaterThan(HighSeverityExcess):
		return entities.SeverityHigh, true
	case ratio.GreaterThan(MediumSeverityExcess):
		return entities.SeverityMedium, true
	default:
		return entities.SeverityLow, true
	}
}
