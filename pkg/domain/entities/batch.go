package entities

import (
	"fmt"
	"maps"
	"time"
)

// DateLayout is the ISO day layout used for dates and batch ids
const DateLayout = "2006-01-02"

// SeriesName identifies a metric series held by the record store
type SeriesName string

// BatchID identifies a physical batch: one production day and shift
type BatchID string

// NewBatchID derives the batch id from date and shift. Vendors are not part of it.
func NewBatchID(date time.Time, shift Shift) BatchID {
	return BatchID(fmt.Sprintf("%s_%s", Day(date).Format(DateLayout), shift))
}

// BatchRecord is one measurement reported by a vendor for a batch
type BatchRecord struct {
	Date       time.Time
	Vendor     VendorID
	Shift      Shift
	Value      float64
	Components map[string]float64
}

// NewBatchRecord creates a validated scalar BatchRecord
func NewBatchRecord(date time.Time, vendor VendorID, shift Shift, value float64) (*BatchRecord, error) {
	if err := validateRecordKey(date, vendor, shift); err != nil {
		return nil, err
	}
	return &BatchRecord{
		Date:   Day(date),
		Vendor: vendor,
		Shift:  shift,
		Value:  value,
	}, nil
}

// NewCompositeRecord creates a validated BatchRecord carrying named sub-measurements
func NewCompositeRecord(date time.Time, vendor VendorID, shift Shift, components map[string]float64) (*BatchRecord, error) {
	if err := validateRecordKey(date, vendor, shift); err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("composite record needs at least one component")
	}
	return &BatchRecord{
		Date:       Day(date),
		Vendor:     vendor,
		Shift:      shift,
		Components: maps.Clone(components),
	}, nil
}

func validateRecordKey(date time.Time, vendor VendorID, shift Shift) error {
	if date.IsZero() {
		return fmt.Errorf("record date cannot be zero")
	}
	if vendor == "" {
		return fmt.Errorf("vendor cannot be empty")
	}
	if !shift.Valid() {
		return fmt.Errorf("invalid shift %d", int(shift))
	}
	return nil
}

// Clone returns a copy that shares no components map with r
func (r BatchRecord) Clone() BatchRecord {
	if r.Components != nil {
		r.Components = maps.Clone(r.Components)
	}
	return r
}

// BatchID returns the id of the physical batch this record reports on
func (r BatchRecord) BatchID() BatchID {
	return NewBatchID(r.Date, r.Shift)
}

// IsComposite reports whether the record carries sub-measurements
func (r BatchRecord) IsComposite() bool {
	return r.Components != nil
}

// Component returns a named sub-measurement
func (r BatchRecord) Component(name string) (float64, bool) {
	v, ok := r.Components[name]
	return v, ok
}

// RecordKey is the (date, vendor, shift) identity of a record within one series
type RecordKey struct {
	Date   string
	Vendor VendorID
	Shift  Shift
}

// Key returns the record's identity within its series
func (r BatchRecord) Key() RecordKey {
	return RecordKey{Date: r.Date.Format(DateLayout), Vendor: r.Vendor, Shift: r.Shift}
}

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses an ISO day
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
