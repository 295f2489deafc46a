package generator

import (
	"reflect"
	"testing"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/repositories/memory"
)

func testConfig(seed int64) Config {
	return Config{
		Seed:        seed,
		Today:       time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC),
		HistoryDays: 10,
		SpikeRate:   0.05,
	}
}

func TestGenerator_Shape(t *testing.T) {
	generated, err := NewGenerator(testConfig(7)).Generate()
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}

	if len(generated) != len(entities.SeriesNames()) {
		t.Fatalf("Expected %d series, got %d", len(entities.SeriesNames()), len(generated))
	}

	expected := 10 * len(entities.Vendors()) * len(entities.Shifts())
	for series, records := range generated {
		if len(records) != expected {
			t.Errorf("Series %s: expected %d records, got %d", series, expected, len(records))
		}
	}

	first := generated[entities.RawMaterialSeries][0]
	if !first.IsComposite() {
		t.Fatal("Expected raw material records to be composite")
	}
	for _, m := range entities.SeriesMetrics(entities.RawMaterialSeries) {
		if _, ok := first.Component(m.Component); !ok {
			t.Errorf("Expected component %s on raw material record", m.Component)
		}
	}

	last := generated[entities.OvenTemperatureSeries][expected-1]
	if !last.Date.Equal(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected last record on 2026-06-30, got %s", last.Date.Format(entities.DateLayout))
	}
	if last.IsComposite() {
		t.Error("Expected oven temperature records to be scalar")
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a, _ := NewGenerator(testConfig(42)).Generate()
	b, _ := NewGenerator(testConfig(42)).Generate()
	if !reflect.DeepEqual(a, b) {
		t.Error("Expected identical output for the same seed")
	}

	c, _ := NewGenerator(testConfig(43)).Generate()
	if reflect.DeepEqual(a, c) {
		t.Error("Expected different magnitudes for a different seed")
	}
}

func TestGenerator_Populate(t *testing.T) {
	repo := memory.NewBatchRepository()
	if err := NewGenerator(testConfig(1)).Populate(repo); err != nil {
		t.Fatalf("Failed to populate: %v", err)
	}

	perSeries := 10 * len(entities.Vendors()) * len(entities.Shifts())
	if repo.Count() != perSeries*len(entities.SeriesNames()) {
		t.Errorf("Expected %d records, got %d", perSeries*len(entities.SeriesNames()), repo.Count())
	}

	records, err := repo.GetRecordsForDate(entities.BakingSeries, time.Date(2026, 6, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Failed to read records: %v", err)
	}
	if len(records) != len(entities.Vendors())*len(entities.Shifts()) {
		t.Errorf("Expected one record per vendor and shift, got %d", len(records))
	}
}
