package entities

import "fmt"

// Severity ranks a critical alert
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// String method for Severity enum
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the severity by name
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityLow || s > SeverityHigh {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// Alert flags a vendor whose average for a metric lies outside the tolerance band
type Alert struct {
	Metric   MetricName `json:"metric"`
	Label    string     `json:"label"`
	Category Category   `json:"category"`
	Vendor   VendorID   `json:"vendor"`
	Value    float64    `json:"value"`
	Min      float64    `json:"min"`
	Max      float64    `json:"max"`
	Severity Severity   `json:"severity"`
}
