package output

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/vsinha/qadash/pkg/application/dto"
	"github.com/vsinha/qadash/pkg/domain/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

// ReportCard is one metric card of the HTML report
type ReportCard struct {
	dto.MetricSummary
	Value  string
	Status string
	Chart  template.HTML
}

// TemplateData contains all data for rendering the HTML template
type TemplateData struct {
	Snapshot    dto.DashboardSnapshot
	Filters     string
	Cards       []ReportCard
	Drilldown   []entities.BatchDetail
	Health      []entities.HealthIndex
	Alerts      []entities.Alert
	DataJSON    template.JS
	GeneratedAt string
}

// GenerateHTML renders the snapshot as a self-contained HTML report
func GenerateHTML(snapshot dto.DashboardSnapshot, config Config) (string, error) {
	chart := NewVendorChart()

	cards := make([]ReportCard, 0, len(snapshot.Metrics))
	for _, m := range snapshot.Metrics {
		cards = append(cards, ReportCard{
			MetricSummary: m,
			Value:         formatValue(m.Scalar.Value, m.Scalar.HasData),
			Status:        status(m),
			Chart:         template.HTML(chart.GenerateSVG(m)),
		})
	}

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report data: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "    📊 Rendering %d metric cards (%d bytes of data)...\n", len(cards), len(jsonData))
	}

	data := &TemplateData{
		Snapshot:    snapshot,
		Filters:     DescribeFilters(snapshot.Filters),
		Cards:       cards,
		Drilldown:   snapshot.Drilldown,
		Health:      snapshot.Health,
		Alerts:      snapshot.Alerts,
		DataJSON:    template.JS(jsonData),
		GeneratedAt: snapshot.GeneratedAt.Format("2006-01-02 15:04:05"),
	}

	tmpl, err := template.ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// generateHTMLOutput creates the HTML report file
func generateHTMLOutput(snapshot dto.DashboardSnapshot, config Config) error {
	html, err := GenerateHTML(snapshot, config)
	if err != nil {
		return fmt.Errorf("failed to generate HTML report: %w", err)
	}

	dir := config.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(dir, "dashboard.html")
	if err := os.WriteFile(filename, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "🌐 HTML report saved to: %s\n", filename)
	}
	return nil
}
