package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateOption selects the date window applied when no drill-down is active
type DateOption int

const (
	LastSixMonths DateOption = iota
	LastThreeMonths
	LastMonth
	CustomRange
)

// String method for DateOption enum
func (o DateOption) String() string {
	switch o {
	case LastSixMonths:
		return "Last 6 Months"
	case LastThreeMonths:
		return "Last 3 Months"
	case LastMonth:
		return "Last Month"
	case CustomRange:
		return "Custom Range"
	default:
		return "Unknown"
	}
}

// Months returns the look-back of a preset option, 0 for CustomRange
func (o DateOption) Months() int {
	switch o {
	case LastSixMonths:
		return 6
	case LastThreeMonths:
		return 3
	case LastMonth:
		return 1
	default:
		return 0
	}
}

// IsPreset reports whether the option is computed relative to today
func (o DateOption) IsPreset() bool {
	return o.Months() > 0
}

// Valid reports whether o is a known option
func (o DateOption) Valid() bool {
	return o >= LastSixMonths && o <= CustomRange
}

// MarshalText encodes the option by label
func (o DateOption) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid date option %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes an option label or id
func (o *DateOption) UnmarshalText(text []byte) error {
	parsed, err := ParseDateOption(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseDateOption accepts either the display label or its kebab-case id
func ParseDateOption(s string) (DateOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "last 6 months", "last-6-months":
		return LastSixMonths, nil
	case "last 3 months", "last-3-months":
		return LastThreeMonths, nil
	case "last month", "last-month":
		return LastMonth, nil
	case "custom range", "custom-range", "custom":
		return CustomRange, nil
	default:
		return 0, fmt.Errorf("unknown date option %q", s)
	}
}

// Range returns the inclusive bounds of a preset option relative to today.
// For CustomRange it returns an empty DateRange.
func (o DateOption) Range(today time.Time) DateRange {
	if !o.IsPreset() {
		return DateRange{}
	}
	end := Day(today)
	start := SubtractMonths(end, o.Months())
	return NewDateRange(start, end)
}

// SubtractMonths moves t back n calendar months, clamping the day to the
// last day of the target month (Mar 31 minus one month is Feb 28 or 29).
func SubtractMonths(t time.Time, n int) time.Time {
	t = Day(t)
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DateRange holds optional inclusive day bounds
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// NewDateRange builds a fully bounded range
func NewDateRange(start, end time.Time) DateRange {
	s, e := Day(start), Day(end)
	return DateRange{Start: &s, End: &e}
}

// ErrInvalidRange is returned for a range whose start is after its end
var ErrInvalidRange = errors.New("invalid date range")

// ParseDateRange parses optional ISO day bounds. An empty string leaves the
// bound unset.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		d, err := ParseDay(start)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
		}
		r.Start = &d
	}
	if end != "" {
		d, err := ParseDay(end)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
		}
		r.End = &d
	}
	if !r.Ordered() {
		return DateRange{}, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, start, end)
	}
	return r, nil
}

// Complete reports whether both bounds are set
func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// Ordered reports whether the bounds are not inverted. Missing bounds are ordered.
func (r DateRange) Ordered() bool {
	if !r.Complete() {
		return true
	}
	return !Day(*r.Start).After(Day(*r.End))
}

// Contains reports whether d falls inside both bounds, inclusive. A range
// missing either bound contains nothing.
func (r DateRange) Contains(d time.Time) bool {
	if !r.Complete() {
		return false
	}
	day := Day(d)
	return !day.Before(Day(*r.Start)) && !day.After(Day(*r.End))
}

// Clone returns a copy that shares no pointers with r
func (r DateRange) Clone() DateRange {
	var out DateRange
	if r.Start != nil {
		s := Day(*r.Start)
		out.Start = &s
	}
	if r.End != nil {
		e := Day(*r.End)
		out.End = &e
	}
	return out
}

// Equal compares bounds at day granularity
func (r DateRange) Equal(o DateRange) bool {
	return sameDayPtr(r.Start, o.Start) && sameDayPtr(r.End, o.End)
}

// MarshalJSON renders bounds as ISO days, null when unset
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start *string `json:"start"`
		End   *string `json:"end"`
	}{Start: formatDayPtr(r.Start), End: formatDayPtr(r.End)})
}

func formatDayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func sameDayPtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Day(*a).Equal(Day(*b))
}

// FilterState is an immutable snapshot of the active dashboard filters
type FilterState struct {
	Vendors       Selection[VendorID]
	DateOption    DateOption
	CustomRange   DateRange
	Shifts        []Shift
	DrilldownDate *time.Time
	Categories    Selection[Category]
}

// DefaultFilterState returns the initial filters: every vendor, every shift,
// every category and the last six months.
func DefaultFilterState(today time.Time) FilterState {
	return FilterState{
		Vendors:     All[VendorID](),
		DateOption:  LastSixMonths,
		CustomRange: LastSixMonths.Range(today),
		Shifts:      Shifts(),
		Categories:  All[Category](),
	}
}

// Clone returns a deep copy
func (s FilterState) Clone() FilterState {
	out := s
	out.CustomRange = s.CustomRange.Clone()
	out.Shifts = append([]Shift(nil), s.Shifts...)
	if out.Shifts == nil {
		out.Shifts = []Shift{}
	}
	if s.DrilldownDate != nil {
		d := Day(*s.DrilldownDate)
		out.DrilldownDate = &d
	}
	return out
}

// HasShift reports whether shift is selected
func (s FilterState) HasShift(shift Shift) bool {
	for _, selected := range s.Shifts {
		if selected == shift {
			return true
		}
	}
	return false
}

// SelectedShifts returns the selected shifts in production order
func (s FilterState) SelectedShifts() []Shift {
	out := make([]Shift, 0, len(s.Shifts))
	for _, shift := range Shifts() {
		if s.HasShift(shift) {
			out = append(out, shift)
		}
	}
	return out
}

type filterStateJSON struct {
	Vendors       Selection[VendorID] `json:"vendors"`
	DateOption    DateOption          `json:"dateOption"`
	CustomRange   DateRange           `json:"customDateRange"`
	Shifts        []Shift             `json:"shifts"`
	DrilldownDate *string             `json:"drilldownDate"`
	Categories    Selection[Category] `json:"categories"`
}

// MarshalJSON renders dates as ISO days
func (s FilterState) MarshalJSON() ([]byte, error) {
	out := filterStateJSON{
		Vendors:     s.Vendors,
		DateOption:  s.DateOption,
		CustomRange: s.CustomRange,
		Shifts:      s.SelectedShifts(),
		Categories:  s.Categories,
	}
	out.DrilldownDate = formatDayPtr(s.DrilldownDate)
	return json.Marshal(out)
}
