package events

import (
	"github.com/vsinha/qadash/pkg/domain/entities"
)

// FilterStream is the stream every filter change is appended to
const FilterStream = "filters"

const (
	FilterReadyEvent             = "filter.ready"
	FilterVendorsChangedEvent    = "filter.vendors.changed"
	FilterShiftsChangedEvent     = "filter.shifts.changed"
	FilterDateChangedEvent       = "filter.date.changed"
	FilterDrilldownChangedEvent  = "filter.drilldown.changed"
	FilterCategoriesChangedEvent = "filter.categories.changed"
	FilterResetEvent             = "filter.reset"
)

// FilterEventTypes lists every filter event type
func FilterEventTypes() []string {
	return []string{
		FilterReadyEvent,
		FilterVendorsChangedEvent,
		FilterShiftsChangedEvent,
		FilterDateChangedEvent,
		FilterDrilldownChangedEvent,
		FilterCategoriesChangedEvent,
		FilterResetEvent,
	}
}

// FilterChanged carries the snapshot that became current
type FilterChanged struct {
	State entities.FilterState `json:"state"`
}

// StateOf returns the filter snapshot carried by a filter event
func StateOf(e Event) (entities.FilterState, bool) {
	changed, ok := e.Data().(FilterChanged)
	return changed.State, ok
}
