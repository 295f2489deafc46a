package entities

import (
	"errors"
	"testing"
	"time"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDay(s)
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", s, err)
	}
	return d
}

func TestSubtractMonths_ClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		from   string
		months int
		want   string
	}{
		{"2024-03-31", 1, "2024-02-29"},
		{"2025-03-31", 1, "2025-02-28"},
		{"2026-06-30", 6, "2025-12-30"},
		{"2026-01-15", 3, "2025-10-15"},
		{"2026-08-31", 6, "2026-02-28"},
	}

	for _, tt := range tests {
		got := SubtractMonths(mustDay(t, tt.from), tt.months)
		if got.Format(DateLayout) != tt.want {
			t.Errorf("SubtractMonths(%s, %d) = %s, expected %s", tt.from, tt.months, got.Format(DateLayout), tt.want)
		}
	}
}

func TestDateOption_Range(t *testing.T) {
	today := mustDay(t, "2026-06-30")

	r := LastThreeMonths.Range(today)
	if r.Start.Format(DateLayout) != "2026-03-30" || r.End.Format(DateLayout) != "2026-06-30" {
		t.Errorf("Unexpected range %v - %v", r.Start, r.End)
	}
	if CustomRange.Range(today).Complete() {
		t.Error("Expected no preset range for Custom Range")
	}
}

func TestParseDateOption(t *testing.T) {
	for _, o := range []DateOption{LastSixMonths, LastThreeMonths, LastMonth, CustomRange} {
		got, err := ParseDateOption(o.String())
		if err != nil || got != o {
			t.Errorf("Expected %s to parse back, got %v, %v", o, got, err)
		}
	}
	if _, err := ParseDateOption("Last Week"); err == nil {
		t.Error("Expected an error for an unsupported option")
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2026-01-01", "2026-01-31")
	if err != nil || !r.Complete() {
		t.Fatalf("Expected a complete range, got %+v, %v", r, err)
	}
	if !r.Contains(mustDay(t, "2026-01-01")) || !r.Contains(mustDay(t, "2026-01-31")) {
		t.Error("Expected both bounds to be inclusive")
	}
	if r.Contains(mustDay(t, "2026-02-01")) {
		t.Error("Expected the day after the end to be excluded")
	}

	half, err := ParseDateRange("2026-01-01", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if half.Complete() || half.Contains(mustDay(t, "2026-01-05")) {
		t.Error("Expected a half-open range to match nothing")
	}

	if _, err := ParseDateRange("2026-02-01", "2026-01-01"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange for an inverted range, got %v", err)
	}
	if _, err := ParseDateRange("01/02/2026", ""); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange for a malformed day, got %v", err)
	}
}

func TestFilterState_CloneIsIndependent(t *testing.T) {
	today := mustDay(t, "2026-06-30")
	state := DefaultFilterState(today)
	drill := mustDay(t, "2026-06-10")
	state.DrilldownDate = &drill

	clone := state.Clone()
	clone.Shifts[0] = Night
	*clone.DrilldownDate = today

	if state.Shifts[0] != Morning {
		t.Error("Expected clone shifts not to alias the original")
	}
	if !state.DrilldownDate.Equal(drill) {
		t.Error("Expected clone drill-down date not to alias the original")
	}
}
