package filter

import (
	"sync"
	"testing"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/events"
)

func fixedClock(date string) Clock {
	t, err := entities.ParseDay(date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newTestController() *Controller {
	c := NewController(WithClock(fixedClock("2026-06-30")))
	c.Start()
	return c
}

func dayPtr(s string) *time.Time {
	t, err := entities.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestController_Defaults(t *testing.T) {
	c := NewController(WithClock(fixedClock("2026-06-30")))

	if c.Ready() {
		t.Error("Expected controller not to be ready before Start")
	}

	state := c.State()
	if !state.Vendors.IsAll() {
		t.Error("Expected all vendors by default")
	}
	if len(state.Shifts) != 3 {
		t.Errorf("Expected all three shifts by default, got %v", state.Shifts)
	}
	if state.DateOption != entities.LastSixMonths {
		t.Errorf("Expected Last 6 Months by default, got %s", state.DateOption)
	}
	if !state.CustomRange.Equal(entities.NewDateRange(*dayPtr("2025-12-30"), *dayPtr("2026-06-30"))) {
		t.Error("Expected custom range to mirror the default preset")
	}
	if state.DrilldownDate != nil {
		t.Error("Expected no drill-down by default")
	}

	c.Start()
	if !c.Ready() {
		t.Error("Expected controller to be ready after Start")
	}
}

func TestController_VendorAllReconciliation(t *testing.T) {
	c := newTestController()

	// Picking a vendor while All is active replaces the selection
	state := c.SetSelectedVendors([]string{entities.AllVendorsLabel, "Vendor B"})
	if state.Vendors.IsAll() {
		t.Fatal("Expected specific selection")
	}
	if items := state.Vendors.Items(); len(items) != 1 || items[0] != entities.VendorB {
		t.Fatalf("Expected [Vendor B], got %v", items)
	}

	state = c.SetSelectedVendors([]string{"Vendor B", "Vendor D"})
	if items := state.Vendors.Items(); len(items) != 2 {
		t.Fatalf("Expected two vendors, got %v", items)
	}

	// Picking All while specific vendors are active clears them
	state = c.SetSelectedVendors([]string{"Vendor B", "Vendor D", entities.AllVendorsLabel})
	if !state.Vendors.IsAll() {
		t.Errorf("Expected All after selecting All Vendors, got %v", state.Vendors.Items())
	}

	// Deselecting the last vendor reverts to All
	c.SetSelectedVendors([]string{"Vendor C"})
	state = c.SetSelectedVendors([]string{})
	if !state.Vendors.IsAll() {
		t.Errorf("Expected All after deselecting the last vendor, got %v", state.Vendors.Items())
	}
}

func TestController_ToggleVendor(t *testing.T) {
	c := newTestController()

	state := c.ToggleVendor(entities.VendorA)
	if items := state.Vendors.Items(); len(items) != 1 || items[0] != entities.VendorA {
		t.Fatalf("Expected [Vendor A], got %v", items)
	}

	state = c.ToggleVendor(entities.VendorC)
	if len(state.Vendors.Items()) != 2 {
		t.Fatalf("Expected two vendors, got %v", state.Vendors.Items())
	}

	c.ToggleVendor(entities.VendorA)
	state = c.ToggleVendor(entities.VendorC)
	if !state.Vendors.IsAll() {
		t.Errorf("Expected All after toggling off the last vendor, got %v", state.Vendors.Items())
	}

	before := c.State()
	after := c.ToggleVendor("Vendor Z")
	if !before.Vendors.Equal(after.Vendors) {
		t.Error("Expected unknown vendor toggle to be ignored")
	}
}

func TestController_UnknownVendorsIgnored(t *testing.T) {
	c := newTestController()
	c.SetSelectedVendors([]string{"Vendor A"})

	state := c.SetSelectedVendors([]string{"Vendor Z"})
	if items := state.Vendors.Items(); len(items) != 1 || items[0] != entities.VendorA {
		t.Errorf("Expected last valid selection to be kept, got %v", items)
	}

	state = c.SetSelectedVendors([]string{"Vendor Z", "Vendor E"})
	if items := state.Vendors.Items(); len(items) != 1 || items[0] != entities.VendorE {
		t.Errorf("Expected unknown vendor to be dropped, got %v", items)
	}
}

func TestController_Shifts(t *testing.T) {
	c := newTestController()

	state := c.SetSelectedShifts([]entities.Shift{entities.Night, entities.Morning, entities.Night, entities.Shift(7)})
	if len(state.Shifts) != 2 || state.Shifts[0] != entities.Morning || state.Shifts[1] != entities.Night {
		t.Errorf("Expected [morning night], got %v", state.Shifts)
	}

	state = c.SetSelectedShifts(nil)
	if state.Shifts == nil || len(state.Shifts) != 0 {
		t.Errorf("Expected explicit empty shift selection, got %v", state.Shifts)
	}
}

func TestController_DateOptionRewritesCustomRange(t *testing.T) {
	c := newTestController()

	c.SetCustomDateRange(entities.NewDateRange(*dayPtr("2026-01-01"), *dayPtr("2026-01-31")))
	state := c.State()
	if state.DateOption != entities.CustomRange {
		t.Fatalf("Expected custom option after setting a range, got %s", state.DateOption)
	}

	state = c.SetDateOption(entities.LastThreeMonths)
	want := entities.NewDateRange(*dayPtr("2026-03-30"), *dayPtr("2026-06-30"))
	if !state.CustomRange.Equal(want) {
		t.Errorf("Expected custom range to follow the preset, got %+v", state.CustomRange)
	}

	// Switching back to custom keeps the preset's bounds
	state = c.SetDateOption(entities.CustomRange)
	if !state.CustomRange.Equal(want) {
		t.Errorf("Expected custom range to be kept, got %+v", state.CustomRange)
	}

	before := c.State()
	after := c.SetDateOption(entities.DateOption(42))
	if after.DateOption != before.DateOption {
		t.Error("Expected invalid option to be ignored")
	}
}

func TestController_InvertedCustomRangeIgnored(t *testing.T) {
	c := newTestController()
	valid := entities.NewDateRange(*dayPtr("2026-02-01"), *dayPtr("2026-02-28"))
	c.SetCustomDateRange(valid)

	state := c.SetCustomDateRange(entities.DateRange{Start: dayPtr("2026-03-10"), End: dayPtr("2026-03-01")})
	if !state.CustomRange.Equal(valid) {
		t.Errorf("Expected inverted range to be ignored, got %+v", state.CustomRange)
	}

	state = c.SetCustomDateRange(entities.DateRange{Start: dayPtr("2026-03-10")})
	if state.CustomRange.End != nil || state.CustomRange.Start == nil {
		t.Errorf("Expected half-open range to be stored, got %+v", state.CustomRange)
	}
}

func TestController_Drilldown(t *testing.T) {
	c := newTestController()

	at := time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC)
	state := c.SetDrilldownDate(&at)
	if state.DrilldownDate == nil || !state.DrilldownDate.Equal(*dayPtr("2026-06-10")) {
		t.Fatalf("Expected drill-down truncated to the day, got %v", state.DrilldownDate)
	}

	// Snapshots must not alias controller state
	*state.DrilldownDate = time.Time{}
	if c.State().DrilldownDate.IsZero() {
		t.Error("Expected snapshot mutation not to leak into the controller")
	}

	state = c.SetDrilldownDate(nil)
	if state.DrilldownDate != nil {
		t.Error("Expected drill-down to be cleared")
	}
}

func TestController_Categories(t *testing.T) {
	c := newTestController()

	state := c.SetSelectedCategories([]string{entities.AllCategoriesLabel, "Baking"})
	if items := state.Categories.Items(); len(items) != 1 || items[0] != entities.Baking {
		t.Fatalf("Expected [Baking], got %v", items)
	}

	state = c.ToggleCategory(entities.Baking)
	if !state.Categories.IsAll() {
		t.Error("Expected All Categories after removing the last category")
	}
}

func TestController_PublishesChanges(t *testing.T) {
	store := events.NewInMemoryEventStore(nil)
	c := NewController(WithClock(fixedClock("2026-06-30")), WithEventStore(store))

	var seen []entities.FilterState
	handler, err := c.Subscribe(func(s entities.FilterState) {
		seen = append(seen, s)
	})
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	c.Start()
	c.ToggleVendor(entities.VendorA)
	c.SetSelectedShifts([]entities.Shift{entities.Morning})

	if len(seen) != 3 {
		t.Fatalf("Expected 3 notifications, got %d", len(seen))
	}
	if seen[2].Shifts[0] != entities.Morning {
		t.Errorf("Expected latest snapshot in notification, got %v", seen[2].Shifts)
	}

	history, _ := store.ReadEvents(events.FilterStream, 1)
	if len(history) != 3 || history[0].Type() != events.FilterReadyEvent {
		t.Errorf("Expected ready event first in a 3-event history, got %d events", len(history))
	}

	c.Unsubscribe(handler)
	c.Reset()
	if len(seen) != 3 {
		t.Errorf("Expected no notification after unsubscribe, got %d", len(seen))
	}
	if !c.State().Vendors.IsAll() {
		t.Error("Expected reset to restore all vendors")
	}
}

// gatedStore holds the first append after arm until release is closed
type gatedStore struct {
	*events.InMemoryEventStore
	mu      sync.Mutex
	armed   bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) arm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = true
}

func (g *gatedStore) AppendEvent(streamID string, event events.Event) (events.Event, error) {
	g.mu.Lock()
	hold := g.armed
	g.armed = false
	g.mu.Unlock()

	if hold {
		close(g.entered)
		<-g.release
	}
	return g.InMemoryEventStore.AppendEvent(streamID, event)
}

func TestController_ConcurrentSettersPublishInSwapOrder(t *testing.T) {
	store := &gatedStore{
		InMemoryEventStore: events.NewInMemoryEventStore(nil),
		entered:            make(chan struct{}),
		release:            make(chan struct{}),
	}
	c := NewController(WithClock(fixedClock("2026-06-30")), WithEventStore(store))
	c.Start()

	var (
		mu   sync.Mutex
		last entities.FilterState
	)
	if _, err := c.Subscribe(func(s entities.FilterState) {
		mu.Lock()
		last = s
		mu.Unlock()
	}); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	store.arm()
	firstDone := make(chan struct{})
	go func() {
		c.SetSelectedShifts([]entities.Shift{entities.Morning})
		close(firstDone)
	}()
	<-store.entered

	secondDone := make(chan struct{})
	go func() {
		c.SetSelectedShifts([]entities.Shift{entities.Night})
		close(secondDone)
	}()

	// The second setter must wait for the first publish to finish
	select {
	case <-secondDone:
		t.Error("Expected the second setter to wait for the first publish")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	<-firstDone
	<-secondDone

	current := c.State()
	if len(current.Shifts) != 1 || current.Shifts[0] != entities.Night {
		t.Fatalf("Expected night to be current, got %v", current.Shifts)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(last.Shifts) != 1 || last.Shifts[0] != entities.Night {
		t.Errorf("Expected last notification to carry night, got %v", last.Shifts)
	}

	history, _ := store.ReadEvents(events.FilterStream, 1)
	latest, ok := events.StateOf(history[len(history)-1])
	if !ok || len(latest.Shifts) != 1 || latest.Shifts[0] != entities.Night {
		t.Errorf("Expected latest stream version to carry night, got %v", latest.Shifts)
	}
}
