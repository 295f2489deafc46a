package repositories

import (
	"errors"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
)

var (
	// ErrUnknownSeries is returned for a series that was never loaded
	ErrUnknownSeries = errors.New("unknown series")
	// ErrDuplicateRecord is returned when a series holds two records for one (date, vendor, shift)
	ErrDuplicateRecord = errors.New("duplicate record")
	// ErrSeriesLoaded is returned when a series is loaded twice
	ErrSeriesLoaded = errors.New("series already loaded")
)

// BatchRepository provides read access to the batch records of every metric series.
// A series is loaded once and is read-only afterwards.
type BatchRepository interface {
	LoadRecords(series entities.SeriesName, records []*entities.BatchRecord) error
	GetRecords(series entities.SeriesName) ([]entities.BatchRecord, error)
	GetRecordsForDate(series entities.SeriesName, date time.Time) ([]entities.BatchRecord, error)
	GetSeriesNames() []entities.SeriesName
	Count() int
}
