package csv

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/domain/repositories"
)

// Header is the long-format batch CSV header. Component is empty for scalar
// series; a composite record spans one row per component.
var Header = []string{"series", "date", "vendor", "shift", "component", "value"}

// Loader handles loading batch records from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

type rowKey struct {
	series entities.SeriesName
	key    entities.RecordKey
}

// LoadBatches reads a batch CSV into records grouped by series, in file order
func (l *Loader) LoadBatches(filename string) (map[entities.SeriesName][]*entities.BatchRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read batch CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("batch CSV must have header and at least one data row")
	}
	if !validateHeader(records[0], Header) {
		return nil, fmt.Errorf("batch CSV header mismatch. Expected: %v, Got: %v", Header, records[0])
	}

	out := make(map[entities.SeriesName][]*entities.BatchRecord)
	composites := make(map[rowKey]*entities.BatchRecord)

	for i, row := range records[1:] {
		if len(row) != len(Header) {
			return nil, fmt.Errorf("batch CSV row %d: expected %d columns, got %d", i+2, len(Header), len(row))
		}

		series := entities.SeriesName(row[0])
		metrics := entities.SeriesMetrics(series)
		if len(metrics) == 0 {
			return nil, fmt.Errorf("batch CSV row %d: unknown series %q", i+2, row[0])
		}
		date, err := entities.ParseDay(row[1])
		if err != nil {
			return nil, fmt.Errorf("batch CSV row %d: %w", i+2, err)
		}
		vendor := entities.VendorID(row[2])
		shift, err := entities.ParseShift(row[3])
		if err != nil {
			return nil, fmt.Errorf("batch CSV row %d: %w", i+2, err)
		}
		value, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return nil, fmt.Errorf("batch CSV row %d: invalid value %q: %w", i+2, row[5], err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("batch CSV row %d: value %q is not a finite number", i+2, row[5])
		}

		component := row[4]
		if err := checkComponent(series, metrics, component); err != nil {
			return nil, fmt.Errorf("batch CSV row %d: %w", i+2, err)
		}
		if component == "" {
			record, err := entities.NewBatchRecord(date, vendor, shift, value)
			if err != nil {
				return nil, fmt.Errorf("batch CSV row %d: %w", i+2, err)
			}
			out[series] = append(out[series], record)
			continue
		}

		key := rowKey{series: series, key: entities.RecordKey{Date: date.Format(entities.DateLayout), Vendor: vendor, Shift: shift}}
		record, exists := composites[key]
		if !exists {
			record, err = entities.NewCompositeRecord(date, vendor, shift, map[string]float64{component: value})
			if err != nil {
				return nil, fmt.Errorf("batch CSV row %d: %w", i+2, err)
			}
			composites[key] = record
			out[series] = append(out[series], record)
			continue
		}
		if _, dup := record.Components[component]; dup {
			return nil, fmt.Errorf("batch CSV row %d: duplicate component %s for %s", i+2, component, record.BatchID())
		}
		record.Components[component] = value
	}

	return out, nil
}

// checkComponent rejects a component on a scalar series, a missing component on
// a composite series, and component names the series does not track
func checkComponent(series entities.SeriesName, metrics []entities.Metric, component string) error {
	composite := metrics[0].Component != ""
	switch {
	case !composite && component != "":
		return fmt.Errorf("series %s is scalar but row has component %q", series, component)
	case composite && component == "":
		return fmt.Errorf("series %s needs a component", series)
	case !composite:
		return nil
	}
	for _, m := range metrics {
		if m.Component == component {
			return nil
		}
	}
	return fmt.Errorf("unknown component %q for series %s", component, series)
}

// LoadInto reads a batch CSV and loads every series into repo
func (l *Loader) LoadInto(filename string, repo repositories.BatchRepository) error {
	batches, err := l.LoadBatches(filename)
	if err != nil {
		return err
	}
	for _, series := range entities.SeriesNames() {
		records, ok := batches[series]
		if !ok {
			continue
		}
		if err := repo.LoadRecords(series, records); err != nil {
			return fmt.Errorf("failed to load series %s: %w", series, err)
		}
	}
	return nil
}

// WriteBatches writes records in the long format LoadBatches reads
func WriteBatches(filename string, batches map[entities.SeriesName][]*entities.BatchRecord) (rows int, err error) {
	file, err := os.Create(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to create batch file %s: %w", filename, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close batch file %s: %w", filename, cerr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		return 0, err
	}

	for _, series := range entities.SeriesNames() {
		for _, record := range batches[series] {
			base := []string{string(series), record.Date.Format(entities.DateLayout), string(record.Vendor), record.Shift.String()}
			if !record.IsComposite() {
				if err := writer.Write(append(base, "", formatValue(record.Value))); err != nil {
					return rows, err
				}
				rows++
				continue
			}

			components := make([]string, 0, len(record.Components))
			for name := range record.Components {
				components = append(components, name)
			}
			sort.Strings(components)
			for _, name := range components {
				row := append(append([]string{}, base...), name, formatValue(record.Components[name]))
				if err := writer.Write(row); err != nil {
					return rows, err
				}
				rows++
			}
		}
	}

	writer.Flush()
	return rows, writer.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// validateHeader checks if CSV header matches expected format
func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if actual[i] != col {
			return false
		}
	}
	return true
}
