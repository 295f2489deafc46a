package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/qadash/pkg/application/dto"
	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/export"
)

// Config holds configuration for output generation
type Config struct {
	Format      string
	OutputDir   string
	Verbose     bool
	ComputeTime time.Duration
	// Stdout receives console output; nil means os.Stdout
	Stdout io.Writer
}

func (c Config) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// Formats lists the supported output formats
func Formats() []string {
	return []string{"text", "json", "csv", "xlsx", "html"}
}

// Generate creates output in the specified format
func Generate(snapshot dto.DashboardSnapshot, config Config) error {
	switch config.Format {
	case "text", "":
		return generateTextOutput(snapshot, config)
	case "json":
		return generateJSONOutput(snapshot, config)
	case "csv":
		return generateCSVOutput(snapshot, config)
	case "xlsx":
		return generateXLSXOutput(snapshot, config)
	case "html":
		return generateHTMLOutput(snapshot, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(snapshot dto.DashboardSnapshot, config Config) error {
	w := config.stdout()

	fmt.Fprintf(w, "📊 QA Dashboard Summary\n")
	fmt.Fprintf(w, "=======================\n\n")

	fmt.Fprintf(w, "Today: %s\n", snapshot.Today)
	fmt.Fprintf(w, "Filters: %s\n", DescribeFilters(snapshot.Filters))
	fmt.Fprintf(w, "Metrics: %d\n", len(snapshot.Metrics))
	if config.ComputeTime > 0 {
		fmt.Fprintf(w, "Compute Time: %v\n", config.ComputeTime)
	}
	fmt.Fprintln(w)

	if len(snapshot.Health) > 0 {
		fmt.Fprintf(w, "💚 Health Index:\n")
		for _, h := range snapshot.Health {
			fmt.Fprintf(w, "  %-18s %3d%% (%d/%d in range)\n", h.Name, h.Index, h.InRange, h.Tracked)
		}
		fmt.Fprintln(w)
	}

	if len(snapshot.Alerts) > 0 {
		fmt.Fprintf(w, "🚨 Critical Alerts (%d):\n", len(snapshot.Alerts))
		for _, a := range snapshot.Alerts {
			fmt.Fprintf(w, "  %-6s %-32s %-10s %10.2f (range %g-%g)\n", a.Severity, a.Label, a.Vendor, a.Value, a.Min, a.Max)
		}
		fmt.Fprintln(w)
	}

	if len(snapshot.Metrics) > 0 {
		fmt.Fprintf(w, "📋 Metrics:\n")
		fmt.Fprintf(w, "%-32s %-18s %10s %-9s %-15s %-8s\n",
			"Metric", "Category", "Average", "Unit", "Range", "Status")
		fmt.Fprintf(w, "%-32s %-18s %10s %-9s %-15s %-8s\n",
			"--------------------------------", "------------------", "----------", "---------", "---------------", "--------")

		for _, m := range snapshot.Metrics {
			fmt.Fprintf(w, "%-32s %-18s %10s %-9s %-15s %-8s\n",
				m.Label,
				m.Category,
				formatValue(m.Scalar.Value, m.Scalar.HasData),
				m.Unit,
				fmt.Sprintf("%g-%g", m.Min, m.Max),
				status(m))
		}
		fmt.Fprintln(w)
	}

	if len(snapshot.Drilldown) > 0 {
		fmt.Fprintf(w, "🔍 Drill-down %s:\n", snapshot.Filters.DrilldownDate.Format(entities.DateLayout))
		for _, detail := range snapshot.Drilldown {
			marker := ""
			if detail.HasOutlier {
				marker = " ⚠️"
			}
			fmt.Fprintf(w, "  %s%s\n", detail.BatchID, marker)
			for _, m := range detail.Metrics {
				if !m.Outlier && !config.Verbose {
					continue
				}
				fmt.Fprintf(w, "    %-32s %10s (baseline %.2f)\n", m.Label, formatValue(m.Value, m.HasData), m.Baseline)
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(snapshot dto.DashboardSnapshot, config Config) error {
	jsonData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.stdout(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "dashboard.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one CSV file per view
func generateCSVOutput(snapshot dto.DashboardSnapshot, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	vendors := snapshot.Filters.Vendors.Expand(entities.Vendors())
	files := []struct {
		name string
		rows [][]string
	}{
		{"metrics.csv", metricRows(snapshot)},
		{"vendors.csv", vendorRows(snapshot, vendors)},
		{"drilldown.csv", drilldownRows(snapshot)},
		{"alerts.csv", alertRows(snapshot)},
	}

	for _, file := range files {
		filename := filepath.Join(config.OutputDir, file.name)
		if err := writeCSV(filename, file.rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.name, err)
		}
		if config.Verbose {
			fmt.Fprintf(config.stdout(), "💾 CSV saved to: %s\n", filename)
		}
	}
	return nil
}

// generateXLSXOutput writes the workbook export
func generateXLSXOutput(snapshot dto.DashboardSnapshot, config Config) error {
	dir := config.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(dir, export.Filename(snapshot))
	if err := export.NewExporter().SaveAs(snapshot, filename); err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 Workbook saved to: %s\n", filename)
	}
	return nil
}

func writeCSV(filename string, rows [][]string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func metricRows(snapshot dto.DashboardSnapshot) [][]string {
	rows := [][]string{{"metric", "label", "category", "average", "unit", "min", "max", "in_range"}}
	for _, m := range snapshot.Metrics {
		rows = append(rows, []string{
			string(m.Name), m.Label, string(m.Category),
			csvValue(m.Scalar.Value, m.Scalar.HasData), m.Unit,
			strconv.FormatFloat(m.Min, 'f', -1, 64), strconv.FormatFloat(m.Max, 'f', -1, 64),
			strconv.FormatBool(m.InRange),
		})
	}
	return rows
}

func vendorRows(snapshot dto.DashboardSnapshot, vendors []entities.VendorID) [][]string {
	header := []string{"metric"}
	for _, v := range vendors {
		header = append(header, string(v))
	}
	rows := [][]string{header}
	for _, m := range snapshot.Metrics {
		row := []string{string(m.Name)}
		for _, p := range m.ByVendor {
			row = append(row, csvValue(p.Value, p.HasData))
		}
		rows = append(rows, row)
	}
	return rows
}

func drilldownRows(snapshot dto.DashboardSnapshot) [][]string {
	rows := [][]string{{"batch_id", "shift", "metric", "value", "baseline", "outlier"}}
	for _, detail := range snapshot.Drilldown {
		for _, m := range detail.Metrics {
			rows = append(rows, []string{
				string(detail.BatchID), detail.Shift.String(), string(m.Metric),
				csvValue(m.Value, m.HasData), strconv.FormatFloat(m.Baseline, 'f', 2, 64),
				strconv.FormatBool(m.Outlier),
			})
		}
	}
	return rows
}

func alertRows(snapshot dto.DashboardSnapshot) [][]string {
	rows := [][]string{{"severity", "metric", "vendor", "average", "min", "max"}}
	for _, a := range snapshot.Alerts {
		rows = append(rows, []string{
			a.Severity.String(), string(a.Metric), string(a.Vendor),
			strconv.FormatFloat(a.Value, 'f', 2, 64),
			strconv.FormatFloat(a.Min, 'f', -1, 64), strconv.FormatFloat(a.Max, 'f', -1, 64),
		})
	}
	return rows
}

// DescribeFilters renders a filter state on one line
func DescribeFilters(state entities.FilterState) string {
	vendors := entities.AllVendorsLabel
	if !state.Vendors.IsAll() {
		vendors = fmt.Sprint(state.Vendors.Items())
	}
	categories := entities.AllCategoriesLabel
	if !state.Categories.IsAll() {
		categories = fmt.Sprint(state.Categories.Items())
	}

	window := state.DateOption.String()
	if state.DateOption == entities.CustomRange {
		window = fmt.Sprintf("%s..%s", dayOrOpen(state.CustomRange.Start), dayOrOpen(state.CustomRange.End))
	}
	if state.DrilldownDate != nil {
		window = "drill-down " + state.DrilldownDate.Format(entities.DateLayout)
	}

	return fmt.Sprintf("%s | %s | shifts %v | %s", vendors, window, state.Shifts, categories)
}

func dayOrOpen(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format(entities.DateLayout)
}

func formatValue(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func csvValue(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func status(m dto.MetricSummary) string {
	switch {
	case !m.Scalar.HasData:
		return "no data"
	case m.InRange:
		return "ok"
	default:
		return "out"
	}
}
