package aggregation

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/domain/services"
)

var testMetric = entities.Metric{
	Name:   "oven_temperature",
	Label:  "Oven Temperature",
	Series: entities.OvenTemperatureSeries,
	Min:    215,
	Max:    245,
}

func day(s string) time.Time {
	t, err := entities.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(date string, vendor entities.VendorID, shift entities.Shift, value float64) entities.BatchRecord {
	return entities.BatchRecord{Date: day(date), Vendor: vendor, Shift: shift, Value: value}
}

func TestScalarAverage_DeduplicatesBatches(t *testing.T) {
	records := []entities.BatchRecord{
		rec("2026-05-01", entities.VendorA, entities.Morning, 10), // batch B
		rec("2026-05-01", entities.VendorB, entities.Morning, 20), // batch B
		rec("2026-05-01", entities.VendorA, entities.Night, 30),   // batch C
	}

	got := ScalarAverage(records, testMetric)
	if got != 17.5 {
		t.Errorf("Expected batch-deduplicated average 17.5, got %v (flat mean would be 20)", got)
	}
}

func TestScalarAverage_Empty(t *testing.T) {
	if got := ScalarAverage(nil, testMetric); got != 0 {
		t.Errorf("Expected 0 for no records, got %v", got)
	}

	value, ok := Average([]entities.BatchRecord{}, testMetric)
	if ok || value != 0 {
		t.Errorf("Expected (0, false) for no records, got (%v, %v)", value, ok)
	}

	// A record holding the value 0 is data, not absence of data
	value, ok = Average([]entities.BatchRecord{rec("2026-05-01", entities.VendorA, entities.Morning, 0)}, testMetric)
	if !ok || value != 0 {
		t.Errorf("Expected (0, true) for a zero measurement, got (%v, %v)", value, ok)
	}
}

func TestScalarAverage_CompositeComponent(t *testing.T) {
	metric := entities.Metric{Name: "flour_moisture", Series: entities.RawMaterialSeries, Component: "flour_moisture"}
	records := []entities.BatchRecord{
		{Date: day("2026-05-01"), Vendor: entities.VendorA, Shift: entities.Morning, Components: map[string]float64{"flour_moisture": 12, "gluten_strength": 30}},
		{Date: day("2026-05-01"), Vendor: entities.VendorB, Shift: entities.Morning, Components: map[string]float64{"gluten_strength": 31}},
		{Date: day("2026-05-02"), Vendor: entities.VendorA, Shift: entities.Morning, Components: map[string]float64{"flour_moisture": 13}},
		rec("2026-05-03", entities.VendorA, entities.Morning, 99),
	}

	if got := ScalarAverage(records, metric); got != 12.5 {
		t.Errorf("Expected 12.5 from the flour_moisture component only, got %v", got)
	}
}

func TestByVendor(t *testing.T) {
	records := []entities.BatchRecord{
		rec("2026-05-01", entities.VendorA, entities.Morning, 10),
		rec("2026-05-01", entities.VendorA, entities.Night, 20),
		rec("2026-05-01", entities.VendorC, entities.Morning, 40),
	}
	vendors := []entities.VendorID{entities.VendorC, entities.VendorB, entities.VendorA}

	series := ByVendor(records, testMetric, vendors)
	if len(series) != 3 {
		t.Fatalf("Expected one point per vendor, got %d", len(series))
	}

	expected := []entities.VendorPoint{
		{Vendor: entities.VendorC, Value: 40, HasData: true},
		{Vendor: entities.VendorB, Value: 0, HasData: false},
		{Vendor: entities.VendorA, Value: 15, HasData: true},
	}
	for i, want := range expected {
		if series[i] != want {
			t.Errorf("Point %d: expected %+v, got %+v", i, want, series[i])
		}
	}
}

func TestByPeriod_Monthly(t *testing.T) {
	records := []entities.BatchRecord{
		rec("2026-02-10", entities.VendorA, entities.Morning, 10),
		rec("2026-01-31", entities.VendorA, entities.Morning, 4),
		rec("2026-01-01", entities.VendorA, entities.Night, 6),
		rec("2026-01-15", entities.VendorB, entities.Morning, 8),
		rec("2026-02-11", entities.VendorB, entities.Afternoon, 12),
	}
	vendors := []entities.VendorID{entities.VendorA, entities.VendorB, entities.VendorC}

	series := ByPeriod(records, testMetric, entities.Monthly, vendors)
	if len(series) != 2 {
		t.Fatalf("Expected 2 monthly rows, got %d", len(series))
	}

	if series[0].Label != "Jan 2026" || series[1].Label != "Feb 2026" {
		t.Errorf("Expected chronological labels, got %s, %s", series[0].Label, series[1].Label)
	}
	if series[0].Values[entities.VendorA] != 5 {
		t.Errorf("Expected Vendor A January average 5, got %v", series[0].Values[entities.VendorA])
	}
	if series[0].Values[entities.VendorB] != 8 {
		t.Errorf("Expected Vendor B January average 8, got %v", series[0].Values[entities.VendorB])
	}
	if _, ok := series[0].Values[entities.VendorC]; ok {
		t.Error("Expected no column for a vendor without records")
	}
	if series[1].Values[entities.VendorB] != 12 {
		t.Errorf("Expected Vendor B February average 12, got %v", series[1].Values[entities.VendorB])
	}
}

func TestByPeriod_Weekly(t *testing.T) {
	// 2026-01-04 is a Sunday; 2026-01-05 starts ISO week 2
	records := []entities.BatchRecord{
		rec("2026-01-04", entities.VendorA, entities.Morning, 1),
		rec("2026-01-05", entities.VendorA, entities.Morning, 2),
		rec("2026-01-11", entities.VendorA, entities.Morning, 4),
	}

	series := ByPeriod(records, testMetric, entities.Weekly, []entities.VendorID{entities.VendorA})
	if len(series) != 2 {
		t.Fatalf("Expected 2 weekly rows, got %d", len(series))
	}
	if series[0].Label != "2026-W01" || series[1].Label != "2026-W02" {
		t.Errorf("Expected ISO week labels, got %s, %s", series[0].Label, series[1].Label)
	}
	if !series[1].Start.Equal(day("2026-01-05")) {
		t.Errorf("Expected week to start on Monday 2026-01-05, got %s", series[1].Start.Format(entities.DateLayout))
	}
	if series[1].Values[entities.VendorA] != 3 {
		t.Errorf("Expected week 2 average 3, got %v", series[1].Values[entities.VendorA])
	}
}

func TestByPeriod_RoundingStability(t *testing.T) {
	// Thirds never round cleanly; the engine keeps them unrounded between stages
	var records []entities.BatchRecord
	var exactTotal float64
	months := []string{"2026-01", "2026-02", "2026-03", "2026-04"}
	for m, month := range months {
		for d := 1; d <= 3; d++ {
			value := float64(m+1) + float64(d)/3
			date := month + "-0" + string(rune('0'+d))
			records = append(records, rec(date, entities.VendorA, entities.Morning, value))
			exactTotal += value
		}
	}

	series := ByPeriod(records, testMetric, entities.Monthly, []entities.VendorID{entities.VendorA})
	if len(series) != len(months) {
		t.Fatalf("Expected %d rows, got %d", len(months), len(series))
	}
	for m, row := range series {
		exact := float64(m+1) + 2.0/3
		if diff := math.Abs(services.Round2(row.Values[entities.VendorA]) - exact); diff > 0.01 {
			t.Errorf("Row %s drifted by %v", row.Label, diff)
		}
	}

	overall := ScalarAverage(records, testMetric)
	if diff := math.Abs(overall - exactTotal/float64(len(records))); diff > 1e-9 {
		t.Errorf("Expected unrounded overall average, drifted by %v", diff)
	}
}

func TestByBatchDrilldown(t *testing.T) {
	date := day("2026-06-10")
	records := []entities.BatchRecord{
		rec("2026-06-10", entities.VendorA, entities.Morning, 100),
		rec("2026-06-10", entities.VendorB, entities.Morning, 100),
		rec("2026-06-10", entities.VendorA, entities.Afternoon, 100),
		rec("2026-06-10", entities.VendorA, entities.Night, 130),
	}
	cohorts := []MetricCohort{{Metric: testMetric, Records: records}}

	details := ByBatchDrilldown(&date, []entities.Shift{entities.Night, entities.Morning, entities.Afternoon}, cohorts)
	if len(details) != 3 {
		t.Fatalf("Expected one detail per shift, got %d", len(details))
	}
	if details[0].Shift != entities.Morning || details[2].Shift != entities.Night {
		t.Errorf("Expected production shift order, got %s..%s", details[0].Shift, details[2].Shift)
	}
	if details[0].BatchID != "2026-06-10_morning" {
		t.Errorf("Expected batch id 2026-06-10_morning, got %s", details[0].BatchID)
	}

	// Baseline is the mean of batch means: (100 + 100 + 130) / 3 = 110
	night := details[2].Metrics[0]
	if math.Abs(night.Baseline-110) > 1e-9 {
		t.Errorf("Expected baseline 110, got %v", night.Baseline)
	}
	if !night.Outlier || !details[2].HasOutlier {
		t.Error("Expected night batch (130 vs 110) to be flagged")
	}
	if details[0].HasOutlier {
		t.Error("Expected morning batch (100 vs 110) not to be flagged")
	}
}

func TestByBatchDrilldown_MissingDataAndNoDate(t *testing.T) {
	date := day("2026-06-10")
	cohorts := []MetricCohort{{Metric: testMetric, Records: []entities.BatchRecord{
		rec("2026-06-10", entities.VendorA, entities.Morning, 50),
	}}}

	details := ByBatchDrilldown(&date, []entities.Shift{entities.Morning, entities.Night}, cohorts)
	if len(details) != 2 {
		t.Fatalf("Expected 2 details, got %d", len(details))
	}
	if details[1].Metrics[0].HasData || details[1].Metrics[0].Outlier {
		t.Error("Expected night batch to have no data and no outlier flag")
	}

	none := ByBatchDrilldown(nil, entities.Shifts(), cohorts)
	if none == nil || len(none) != 0 {
		t.Errorf("Expected empty non-nil slice without a drill-down date, got %v", none)
	}

	if got := ByBatchDrilldown(&date, nil, cohorts); len(got) != 0 {
		t.Errorf("Expected no details without shifts, got %d", len(got))
	}
}

func TestAggregations_Idempotent(t *testing.T) {
	var records []entities.BatchRecord
	for d := 1; d <= 28; d++ {
		date := time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC).Format(entities.DateLayout)
		for i, vendor := range entities.Vendors() {
			for _, shift := range entities.Shifts() {
				records = append(records, rec(date, vendor, shift, 200+float64(d)*0.37+float64(i)*1.11+float64(shift)*0.013))
			}
		}
	}
	vendors := entities.Vendors()

	if a, b := ScalarAverage(records, testMetric), ScalarAverage(records, testMetric); math.Float64bits(a) != math.Float64bits(b) {
		t.Errorf("ScalarAverage not bit-identical: %v vs %v", a, b)
	}
	if a, b := ByVendor(records, testMetric, vendors), ByVendor(records, testMetric, vendors); !reflect.DeepEqual(a, b) {
		t.Error("ByVendor not identical across calls")
	}
	if a, b := ByPeriod(records, testMetric, entities.Weekly, vendors), ByPeriod(records, testMetric, entities.Weekly, vendors); !reflect.DeepEqual(a, b) {
		t.Error("ByPeriod not identical across calls")
	}
}
