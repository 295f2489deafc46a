package services

import (
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
)

// RecordFilter decides whether batch records match a filter snapshot.
// Lookup sets and the date window are resolved once per snapshot.
type RecordFilter struct {
	vendors map[entities.VendorID]bool
	shifts  map[entities.Shift]bool
	window  entities.DateRange
}

// NewRecordFilter prepares a filter for state, resolving preset date windows against today
func NewRecordFilter(state entities.FilterState, today time.Time) *RecordFilter {
	f := &RecordFilter{
		vendors: make(map[entities.VendorID]bool),
		shifts:  make(map[entities.Shift]bool, len(state.Shifts)),
		window:  EffectiveWindow(state, today),
	}
	for _, vendor := range state.Vendors.Expand(entities.Vendors()) {
		f.vendors[vendor] = true
	}
	for _, shift := range state.Shifts {
		f.shifts[shift] = true
	}
	return f
}

// Matches reports whether a record passes the vendor, shift and date checks
func (f *RecordFilter) Matches(record entities.BatchRecord) bool {
	if !f.vendors[record.Vendor] {
		return false
	}
	if !f.shifts[record.Shift] {
		return false
	}
	return f.window.Contains(record.Date)
}

// Apply returns the matching records, preserving order
func (f *RecordFilter) Apply(records []entities.BatchRecord) []entities.BatchRecord {
	out := make([]entities.BatchRecord, 0, len(records))
	for _, record := range records {
		if f.Matches(record) {
			out = append(out, record)
		}
	}
	return out
}

// Window returns the inclusive date window the filter applies
func (f *RecordFilter) Window() entities.DateRange {
	return f.window.Clone()
}

// Matches reports whether record matches state as of today
func Matches(record entities.BatchRecord, state entities.FilterState, today time.Time) bool {
	return NewRecordFilter(state, today).Matches(record)
}

// EffectiveWindow resolves the date window of a snapshot. A drill-down date
// narrows to that single day and overrides the date option; a custom option
// uses the custom bounds as they are, so a missing bound matches nothing;
// presets count back from today.
func EffectiveWindow(state entities.FilterState, today time.Time) entities.DateRange {
	if state.DrilldownDate != nil {
		return entities.NewDateRange(*state.DrilldownDate, *state.DrilldownDate)
	}
	if state.DateOption == entities.CustomRange {
		return state.CustomRange.Clone()
	}
	return state.DateOption.Range(today)
}
