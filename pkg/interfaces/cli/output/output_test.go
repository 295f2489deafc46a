package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vsinha/qadash/pkg/application/dto"
	"github.com/vsinha/qadash/pkg/domain/entities"
)

func testSnapshot() dto.DashboardSnapshot {
	today, _ := entities.ParseDay("2026-06-30")
	drilldown, _ := entities.ParseDay("2026-06-10")
	state := entities.DefaultFilterState(today)
	state.DrilldownDate = &drilldown

	return dto.DashboardSnapshot{
		ID:          "snapshot-1",
		GeneratedAt: time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC),
		Today:       "2026-06-30",
		Filters:     state,
		Metrics: []dto.MetricSummary{
			{
				Name: "oven_temperature", Label: "Oven Temperature", Unit: "°C", Category: entities.Baking,
				Min: 215, Max: 245,
				Scalar:  entities.Scalar{Value: 250.5, HasData: true},
				ByVendor: entities.VendorSeries{
					{Vendor: entities.VendorA, Value: 250.5, HasData: true},
					{Vendor: entities.VendorB},
				},
			},
			{
				Name: "rejection_rate", Label: "Rejection Rate", Unit: "%", Category: entities.Operational,
				Min: 0, Max: 10,
			},
		},
		Drilldown: []entities.BatchDetail{{
			BatchID: "2026-06-10_night",
			Shift:   entities.Night,
			Metrics: []entities.BatchMetric{
				{Metric: "oven_temperature", Label: "Oven Temperature", Value: 260, Baseline: 230, Outlier: true, HasData: true},
			},
			HasOutlier: true,
		}},
		Health: []entities.HealthIndex{{Name: "Overall", Index: 0, InRange: 0, Tracked: 1}},
		Alerts: []entities.Alert{{
			Metric: "oven_temperature", Label: "Oven Temperature", Vendor: entities.VendorA,
			Value: 250.5, Min: 215, Max: 245, Severity: entities.SeverityMedium,
		}},
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(testSnapshot(), Config{Format: "text", Stdout: &buf})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Oven Temperature", "250.50", "out", "n/a", "no data", "2026-06-10_night", "drill-down 2026-06-10", "Critical Alerts (1)", "Medium"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected text output to contain %q", want)
		}
	}
}

func TestGenerate_CSV(t *testing.T) {
	dir := t.TempDir()
	if err := Generate(testSnapshot(), Config{Format: "csv", OutputDir: dir, Stdout: &bytes.Buffer{}}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	file, err := os.Open(filepath.Join(dir, "metrics.csv"))
	if err != nil {
		t.Fatalf("Expected metrics.csv: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][3] != "250.50" || rows[2][3] != "" {
		t.Errorf("Expected averages 250.50 and blank, got %q and %q", rows[1][3], rows[2][3])
	}

	for _, name := range []string{"vendors.csv", "drilldown.csv", "alerts.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}

	if err := Generate(testSnapshot(), Config{Format: "csv"}); err == nil {
		t.Error("Expected CSV without an output directory to fail")
	}
}

func TestGenerate_HTML(t *testing.T) {
	html, err := GenerateHTML(testSnapshot(), Config{})
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}
	for _, want := range []string{"<svg", "Oven Temperature", "2026-06-10_night", "window.dashboardData"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected HTML to contain %q", want)
		}
	}
}

func TestGenerate_XLSXAndJSONFiles(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{"xlsx", "json", "html"} {
		if err := Generate(testSnapshot(), Config{Format: format, OutputDir: dir, Stdout: &bytes.Buffer{}}); err != nil {
			t.Fatalf("Generate %s failed: %v", format, err)
		}
	}
	for _, name := range []string{"qa-dashboard-2026-06-30.xlsx", "dashboard.json", "dashboard.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	if err := Generate(testSnapshot(), Config{Format: "pdf"}); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}

func TestVendorChart(t *testing.T) {
	chart := NewVendorChart()
	snapshot := testSnapshot()

	svg := chart.GenerateSVG(snapshot.Metrics[0])
	if !strings.Contains(svg, "#EF4444") {
		t.Error("Expected an out-of-range bar to be drawn red")
	}
	if strings.Count(svg, `class="bar"`) != 1 {
		t.Error("Expected one bar for the single vendor with data")
	}

	empty := chart.GenerateSVG(snapshot.Metrics[1])
	if !strings.Contains(empty, "No data") {
		t.Error("Expected a placeholder for a metric without data")
	}
}
