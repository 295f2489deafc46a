package testing

import (
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/repositories/memory"
)

// ScenarioToday is the pinned "today" of BuildBakeryTestData
const ScenarioToday = "2026-06-30"

// MustDay parses an ISO day or panics
func MustDay(s string) time.Time {
	t, err := entities.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FixedClock returns a clock pinned to the given day
func FixedClock(day string) func() time.Time {
	t := MustDay(day)
	return func() time.Time { return t }
}

// MustRecord builds a scalar record or panics
func MustRecord(date string, vendor entities.VendorID, shift entities.Shift, value float64) *entities.BatchRecord {
	record, err := entities.NewBatchRecord(MustDay(date), vendor, shift, value)
	if err != nil {
		panic(err)
	}
	return record
}

// BuildBakeryTestData builds a small oven-temperature dataset with hand-checked averages:
//
//	2026-06-10 morning   Vendor A 100, Vendor B 100  -> batch mean 100
//	2026-06-10 afternoon Vendor A 100                -> 100
//	2026-06-10 night     Vendor A 130                -> 130 (outlier vs 110)
//	2026-06-20 morning   Vendor C 230, Vendor D 240  -> 235
//	2025-01-15 night     Vendor E 999                -> outside every preset window
//
// Scalar over Last 6 Months is 141.25; the 2026-06-10 drill-down baseline is 110.
// Only the oven temperature series is loaded.
func BuildBakeryTestData() *memory.BatchRepository {
	repo := memory.NewBatchRepository()

	records := []*entities.BatchRecord{
		MustRecord("2026-06-10", entities.VendorA, entities.Morning, 100),
		MustRecord("2026-06-10", entities.VendorB, entities.Morning, 100),
		MustRecord("2026-06-10", entities.VendorA, entities.Afternoon, 100),
		MustRecord("2026-06-10", entities.VendorA, entities.Night, 130),
		MustRecord("2026-06-20", entities.VendorC, entities.Morning, 230),
		MustRecord("2026-06-20", entities.VendorD, entities.Morning, 240),
		MustRecord("2025-01-15", entities.VendorE, entities.Night, 999),
	}

	if err := repo.LoadRecords(entities.OvenTemperatureSeries, records); err != nil {
		panic(err)
	}
	return repo
}
