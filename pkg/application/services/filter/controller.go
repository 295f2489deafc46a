package filter

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/events"
)

// Clock returns the current time; tests pin it
type Clock func() time.Time

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the clock used for "today"
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithEventStore sets the store filter changes are published to
func WithEventStore(store events.EventStore) Option {
	return func(c *Controller) {
		c.events = store
	}
}

// Controller owns the filter state. Readers get immutable snapshots; every
// setter reconciles its input, swaps the snapshot and publishes the change.
// Malformed input is logged and ignored, keeping the last valid state.
type Controller struct {
	// publishMu orders swap-then-append so stream versions follow state swaps
	publishMu sync.Mutex
	mutex     sync.RWMutex
	state  entities.FilterState
	ready  bool
	clock  Clock
	logger *slog.Logger
	events events.EventStore
}

// NewController creates a controller holding the default filters. It reports
// not ready until Start is called.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.events == nil {
		c.events = events.NewInMemoryEventStore(c.logger)
	}
	c.state = entities.DefaultFilterState(c.Today())
	return c
}

// Start marks the controller initialized. Calling it again has no effect.
func (c *Controller) Start() {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mutex.Lock()
	if c.ready {
		c.mutex.Unlock()
		return
	}
	c.ready = true
	snapshot := c.state.Clone()
	c.mutex.Unlock()

	c.publish(events.FilterReadyEvent, snapshot)
}

// Ready reports whether Start has run
func (c *Controller) Ready() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.ready
}

// State returns a snapshot of the current filters
func (c *Controller) State() entities.FilterState {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.state.Clone()
}

// Today returns the current day according to the controller clock
func (c *Controller) Today() time.Time {
	return entities.Day(c.clock())
}

// Events returns the store filter changes are appended to
func (c *Controller) Events() events.EventStore {
	return c.events
}

// Subscribe calls fn with every new snapshot, in the order the snapshots became
// current. fn runs while the change is being published and must not call setters.
// Keep the returned handler to unsubscribe.
func (c *Controller) Subscribe(fn func(entities.FilterState)) (*events.FuncHandler, error) {
	handler := events.NewFuncHandler(func(e events.Event) error {
		if state, ok := events.StateOf(e); ok {
			fn(state.Clone())
		}
		return nil
	})
	if err := c.events.Subscribe(events.FilterEventTypes(), handler); err != nil {
		return nil, err
	}
	return handler, nil
}

// Unsubscribe stops deliveries to a handler returned by Subscribe
func (c *Controller) Unsubscribe(handler *events.FuncHandler) error {
	return c.events.Unsubscribe(handler)
}

// SetSelectedVendors applies a vendor multi-select. The "All Vendors" label may be
// part of the list; see entities.Selection.Reconcile for how it combines with
// specific vendors. Unknown vendors are dropped, and a list of only unknown
// vendors is ignored.
func (c *Controller) SetSelectedVendors(labels []string) entities.FilterState {
	requested, includesAll, unknown := parseLabels(labels, entities.AllVendorsLabel, func(s string) (entities.VendorID, bool) {
		id := entities.VendorID(s)
		return id, entities.IsKnownVendor(id)
	})
	if len(unknown) > 0 {
		c.logger.Warn("ignoring unknown vendors", "vendors", unknown)
		if len(requested) == 0 && !includesAll {
			return c.State()
		}
	}

	return c.update(events.FilterVendorsChangedEvent, func(s *entities.FilterState) {
		s.Vendors = s.Vendors.Reconcile(requested, includesAll)
	})
}

// ToggleVendor selects or deselects a single vendor
func (c *Controller) ToggleVendor(vendor entities.VendorID) entities.FilterState {
	if !entities.IsKnownVendor(vendor) {
		c.logger.Warn("ignoring unknown vendor", "vendor", vendor)
		return c.State()
	}
	return c.update(events.FilterVendorsChangedEvent, func(s *entities.FilterState) {
		s.Vendors = s.Vendors.Toggle(vendor)
	})
}

// SetSelectedShifts replaces the shift selection. An empty list is kept as is
// and matches no records. Invalid shifts are dropped.
func (c *Controller) SetSelectedShifts(shifts []entities.Shift) entities.FilterState {
	selected := make(map[entities.Shift]bool, len(shifts))
	for _, shift := range shifts {
		if !shift.Valid() {
			c.logger.Warn("ignoring invalid shift", "shift", int(shift))
			continue
		}
		selected[shift] = true
	}

	next := make([]entities.Shift, 0, len(selected))
	for _, shift := range entities.Shifts() {
		if selected[shift] {
			next = append(next, shift)
		}
	}

	return c.update(events.FilterShiftsChangedEvent, func(s *entities.FilterState) {
		s.Shifts = next
	})
}

// SetDateOption switches the date window. Choosing a preset rewrites the custom
// range to the preset's bounds so both fields describe the same window.
func (c *Controller) SetDateOption(option entities.DateOption) entities.FilterState {
	if !option.Valid() {
		c.logger.Warn("ignoring invalid date option", "option", int(option))
		return c.State()
	}
	today := c.Today()
	return c.update(events.FilterDateChangedEvent, func(s *entities.FilterState) {
		s.DateOption = option
		if option.IsPreset() {
			s.CustomRange = option.Range(today)
		}
	})
}

// SetCustomDateRange sets custom bounds and switches to the custom option.
// A range whose start is after its end is ignored. A range with a missing
// bound is accepted and matches nothing until completed.
func (c *Controller) SetCustomDateRange(r entities.DateRange) entities.FilterState {
	if !r.Ordered() {
		c.logger.Warn("ignoring inverted custom date range",
			"start", r.Start.Format(entities.DateLayout),
			"end", r.End.Format(entities.DateLayout))
		return c.State()
	}
	next := r.Clone()
	return c.update(events.FilterDateChangedEvent, func(s *entities.FilterState) {
		s.DateOption = entities.CustomRange
		s.CustomRange = next
	})
}

// SetDrilldownDate narrows every view to one day; nil clears the drill-down
func (c *Controller) SetDrilldownDate(date *time.Time) entities.FilterState {
	var next *time.Time
	if date != nil {
		d := entities.Day(*date)
		next = &d
	}
	return c.update(events.FilterDrilldownChangedEvent, func(s *entities.FilterState) {
		s.DrilldownDate = next
	})
}

// SetSelectedCategories applies a category multi-select with the same "All
// Categories" reconciliation as vendors
func (c *Controller) SetSelectedCategories(labels []string) entities.FilterState {
	requested, includesAll, unknown := parseLabels(labels, entities.AllCategoriesLabel, func(s string) (entities.Category, bool) {
		category := entities.Category(s)
		return category, entities.IsKnownCategory(category)
	})
	if len(unknown) > 0 {
		c.logger.Warn("ignoring unknown categories", "categories", unknown)
		if len(requested) == 0 && !includesAll {
			return c.State()
		}
	}

	return c.update(events.FilterCategoriesChangedEvent, func(s *entities.FilterState) {
		s.Categories = s.Categories.Reconcile(requested, includesAll)
	})
}

// ToggleCategory selects or deselects a single category
func (c *Controller) ToggleCategory(category entities.Category) entities.FilterState {
	if !entities.IsKnownCategory(category) {
		c.logger.Warn("ignoring unknown category", "category", category)
		return c.State()
	}
	return c.update(events.FilterCategoriesChangedEvent, func(s *entities.FilterState) {
		s.Categories = s.Categories.Toggle(category)
	})
}

// Reset restores the default filters
func (c *Controller) Reset() entities.FilterState {
	today := c.Today()
	return c.update(events.FilterResetEvent, func(s *entities.FilterState) {
		*s = entities.DefaultFilterState(today)
	})
}

// update applies mutate to a copy of the state, swaps it in and publishes it
func (c *Controller) update(eventType string, mutate func(*entities.FilterState)) entities.FilterState {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mutex.Lock()
	next := c.state.Clone()
	mutate(&next)
	c.state = next
	snapshot := next.Clone()
	c.mutex.Unlock()

	c.logger.Debug("filters changed", "event", eventType)
	c.publish(eventType, snapshot)
	return snapshot
}

func (c *Controller) publish(eventType string, state entities.FilterState) {
	event := events.NewEvent(eventType, events.FilterStream, events.FilterChanged{State: state})
	if _, err := c.events.AppendEvent(events.FilterStream, event); err != nil {
		c.logger.Error("failed to publish filter change", "event", eventType, "error", err)
	}
}

// parseLabels splits multi-select labels into known items, the "all" marker and unknown labels
func parseLabels[T comparable](labels []string, allLabel string, parse func(string) (T, bool)) ([]T, bool, []string) {
	var (
		requested   []T
		includesAll bool
		unknown     []string
	)
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if strings.EqualFold(label, allLabel) {
			includesAll = true
			continue
		}
		item, ok := parse(label)
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		requested = append(requested, item)
	}
	return requested, includesAll, unknown
}
