package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/domain/repositories"
)

// seriesData holds one series with its lookup indexes
type seriesData struct {
	records []entities.BatchRecord
	byDate  map[string][]int
}

// BatchRepository provides in-memory batch record storage
type BatchRepository struct {
	mutex  sync.RWMutex
	series map[entities.SeriesName]*seriesData
	order  []entities.SeriesName
}

// NewBatchRepository creates a new in-memory batch record repository
func NewBatchRepository() *BatchRepository {
	return &BatchRepository{
		series: make(map[entities.SeriesName]*seriesData),
	}
}

// Verify interface compliance
var _ repositories.BatchRepository = (*BatchRepository)(nil)

// LoadRecords loads a whole series. The series must not be loaded yet and must
// hold at most one record per (date, vendor, shift); on error nothing is stored.
func (r *BatchRepository) LoadRecords(series entities.SeriesName, records []*entities.BatchRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.series[series]; exists {
		return fmt.Errorf("%w: %s", repositories.ErrSeriesLoaded, series)
	}

	data := &seriesData{
		records: make([]entities.BatchRecord, 0, len(records)),
		byDate:  make(map[string][]int),
	}
	seen := make(map[entities.RecordKey]bool, len(records))
	var duplicates []string

	for _, record := range records {
		key := record.Key()
		if seen[key] {
			duplicates = append(duplicates, fmt.Sprintf("%s/%s/%s", key.Date, key.Vendor, key.Shift))
			continue
		}
		seen[key] = true

		data.byDate[key.Date] = append(data.byDate[key.Date], len(data.records))
		data.records = append(data.records, record.Clone())
	}

	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		return fmt.Errorf("%w in series %s: %v", repositories.ErrDuplicateRecord, series, duplicates)
	}

	r.series[series] = data
	r.order = append(r.order, series)
	return nil
}

// GetRecords returns a copy of every record of a series
func (r *BatchRepository) GetRecords(series entities.SeriesName) ([]entities.BatchRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	data, exists := r.series[series]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrUnknownSeries, series)
	}

	out := make([]entities.BatchRecord, len(data.records))
	for i, record := range data.records {
		out[i] = record.Clone()
	}
	return out, nil
}

// GetRecordsForDate returns the records of a series reported for one day
func (r *BatchRepository) GetRecordsForDate(series entities.SeriesName, date time.Time) ([]entities.BatchRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	data, exists := r.series[series]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrUnknownSeries, series)
	}

	indexes := data.byDate[entities.Day(date).Format(entities.DateLayout)]
	out := make([]entities.BatchRecord, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, data.records[i].Clone())
	}
	return out, nil
}

// GetSeriesNames returns the loaded series in load order
func (r *BatchRepository) GetSeriesNames() []entities.SeriesName {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]entities.SeriesName, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of records across all series
func (r *BatchRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	total := 0
	for _, data := range r.series {
		total += len(data.records)
	}
	return total
}
