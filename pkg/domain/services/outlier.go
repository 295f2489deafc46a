package services

import (
	"math"

	"github.com/shopspring/decimal"
)

// OutlierThreshold is the relative deviation from the cohort baseline above which
// a batch value is flagged
var OutlierThreshold = decimal.NewFromFloat(0.10)

// IsOutlier reports whether value deviates from baseline by more than
// OutlierThreshold. The comparison is exact in decimal so a deviation of
// exactly 10% is not an outlier. A zero baseline never yields an outlier.
func IsOutlier(value, baseline float64) bool {
	if baseline == 0 || !isFinite(value) || !isFinite(baseline) {
		return false
	}
	v := decimal.NewFromFloat(value)
	b := decimal.NewFromFloat(baseline)
	return v.Sub(b).Abs().GreaterThan(b.Abs().Mul(OutlierThreshold))
}

// Round2 rounds a value to two decimal places, half away from zero, for display
func Round2(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
