package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/qadash/pkg/application/dto"
	"github.com/vsinha/qadash/pkg/domain/entities"
)

// Sheet names of the exported workbook
const (
	SummarySheet   = "Summary"
	VendorSheet    = "By Vendor"
	MonthlySheet   = "Monthly"
	DrilldownSheet = "Drill-down"
	HealthSheet    = "Health"
	AlertsSheet    = "Alerts"
)

// ContentType is the MIME type of an xlsx workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Exporter renders dashboard snapshots as xlsx workbooks
type Exporter struct{}

// NewExporter creates an exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// Filename returns the download name for a snapshot
func Filename(snapshot dto.DashboardSnapshot) string {
	return fmt.Sprintf("qa-dashboard-%s.xlsx", snapshot.Today)
}

// Export builds a workbook with one sheet per dashboard view
func (e *Exporter) Export(snapshot dto.DashboardSnapshot) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{VendorSheet, MonthlySheet, DrilldownSheet, HealthSheet, AlertsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	outlierStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#B91C1C"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create outlier style: %w", err)
	}

	vendors := snapshot.Filters.Vendors.Expand(entities.Vendors())

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SummarySheet, summaryRows(snapshot)},
		{VendorSheet, vendorRows(snapshot, vendors)},
		{MonthlySheet, monthlyRows(snapshot, vendors)},
		{DrilldownSheet, drilldownRows(snapshot)},
		{HealthSheet, healthRows(snapshot)},
		{AlertsSheet, alertRows(snapshot)},
	}
	for _, sheet := range sheets {
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return nil, err
		}
		f.SetRowStyle(sheet.name, 1, 1, headerStyle)
		f.SetColWidth(sheet.name, "A", "A", 32)
		f.SetColWidth(sheet.name, "B", "H", 14)
	}

	// Highlight flagged drill-down cells
	row := 2
	for _, detail := range snapshot.Drilldown {
		for _, m := range detail.Metrics {
			if m.Outlier {
				cell, _ := excelize.CoordinatesToCellName(4, row)
				f.SetCellStyle(DrilldownSheet, cell, cell, outlierStyle)
			}
			row++
		}
	}

	return f, nil
}

// Write renders snapshot as xlsx to w
func (e *Exporter) Write(snapshot dto.DashboardSnapshot, w io.Writer) error {
	f, err := e.Export(snapshot)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveAs renders snapshot as xlsx to path
func (e *Exporter) SaveAs(snapshot dto.DashboardSnapshot, path string) error {
	f, err := e.Export(snapshot)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func summaryRows(s dto.DashboardSnapshot) [][]interface{} {
	rows := [][]interface{}{{"Metric", "Category", "Average", "Unit", "Min", "Max", "In Range"}}
	for _, m := range s.Metrics {
		rows = append(rows, []interface{}{
			m.Label, string(m.Category), valueOrBlank(m.Scalar.Value, m.Scalar.HasData), m.Unit, m.Min, m.Max, yesNo(m.InRange),
		})
	}
	return rows
}

func vendorRows(s dto.DashboardSnapshot, vendors []entities.VendorID) [][]interface{} {
	header := []interface{}{"Metric"}
	for _, v := range vendors {
		header = append(header, string(v))
	}
	rows := [][]interface{}{header}
	for _, m := range s.Metrics {
		row := []interface{}{m.Label}
		for _, p := range m.ByVendor {
			row = append(row, valueOrBlank(p.Value, p.HasData))
		}
		rows = append(rows, row)
	}
	return rows
}

func monthlyRows(s dto.DashboardSnapshot, vendors []entities.VendorID) [][]interface{} {
	header := []interface{}{"Metric", "Period"}
	for _, v := range vendors {
		header = append(header, string(v))
	}
	rows := [][]interface{}{header}
	for _, m := range s.Metrics {
		for _, period := range m.Monthly {
			row := []interface{}{m.Label, period.Label}
			for _, v := range vendors {
				value, ok := period.Values[v]
				row = append(row, valueOrBlank(value, ok))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func drilldownRows(s dto.DashboardSnapshot) [][]interface{} {
	rows := [][]interface{}{{"Batch", "Shift", "Metric", "Value", "Baseline", "Unit", "Outlier"}}
	for _, detail := range s.Drilldown {
		for _, m := range detail.Metrics {
			rows = append(rows, []interface{}{
				string(detail.BatchID), detail.Shift.String(), m.Label,
				valueOrBlank(m.Value, m.HasData), m.Baseline, m.Unit, yesNo(m.Outlier),
			})
		}
	}
	return rows
}

func healthRows(s dto.DashboardSnapshot) [][]interface{} {
	rows := [][]interface{}{{"Scope", "Index", "In Range", "Tracked"}}
	for _, h := range s.Health {
		rows = append(rows, []interface{}{h.Name, h.Index, h.InRange, h.Tracked})
	}
	return rows
}

func alertRows(s dto.DashboardSnapshot) [][]interface{} {
	rows := [][]interface{}{{"Metric", "Vendor", "Severity", "Average", "Min", "Max"}}
	for _, a := range s.Alerts {
		rows = append(rows, []interface{}{a.Label, string(a.Vendor), a.Severity.String(), a.Value, a.Min, a.Max})
	}
	return rows
}

func valueOrBlank(v float64, ok bool) interface{} {
	if !ok {
		return ""
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
