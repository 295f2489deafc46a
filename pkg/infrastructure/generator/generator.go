package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/domain/repositories"
)

// Config holds configuration for synthetic batch generation
type Config struct {
	Seed        int64     // Random seed for reproducible generation
	Today       time.Time // Last generated day
	HistoryDays int       // Number of days generated, ending at Today
	SpikeRate   float64   // Probability that a value is a spike of twice the spread
}

// DefaultConfig generates 200 days ending today, enough for the six-month window
func DefaultConfig() Config {
	return Config{
		Seed:        1,
		Today:       time.Now(),
		HistoryDays: 200,
		SpikeRate:   0.02,
	}
}

// Generator produces one record per (date, vendor, shift) for every series of
// the metric catalog. The shape is fixed; magnitudes are random around each
// metric's nominal value with a per-vendor bias and a slow drift.
type Generator struct {
	config Config
	rand   *rand.Rand
}

// NewGenerator creates a generator. A zero seed picks a time-based one.
func NewGenerator(config Config) *Generator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Today.IsZero() {
		config.Today = time.Now()
	}
	if config.HistoryDays <= 0 {
		config.HistoryDays = DefaultConfig().HistoryDays
	}

	return &Generator{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// Generate builds every series
func (g *Generator) Generate() (map[entities.SeriesName][]*entities.BatchRecord, error) {
	out := make(map[entities.SeriesName][]*entities.BatchRecord)
	for _, series := range entities.SeriesNames() {
		records, err := g.generateSeries(series)
		if err != nil {
			return nil, fmt.Errorf("failed to generate series %s: %w", series, err)
		}
		out[series] = records
	}
	return out, nil
}

// Populate generates every series and loads it into repo
func (g *Generator) Populate(repo repositories.BatchRepository) error {
	generated, err := g.Generate()
	if err != nil {
		return err
	}
	for _, series := range entities.SeriesNames() {
		if err := repo.LoadRecords(series, generated[series]); err != nil {
			return fmt.Errorf("failed to load series %s: %w", series, err)
		}
	}
	return nil
}

func (g *Generator) generateSeries(series entities.SeriesName) ([]*entities.BatchRecord, error) {
	metrics := entities.SeriesMetrics(series)
	if len(metrics) == 0 {
		return nil, fmt.Errorf("series %s has no metrics", series)
	}
	composite := metrics[0].Component != ""

	days := g.config.HistoryDays
	end := entities.Day(g.config.Today)
	start := end.AddDate(0, 0, -(days - 1))
	vendors := entities.Vendors()

	records := make([]*entities.BatchRecord, 0, days*len(vendors)*len(entities.Shifts()))
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		progress := float64(d) / float64(days)

		for vi, vendor := range vendors {
			for _, shift := range entities.Shifts() {
				var (
					record *entities.BatchRecord
					err    error
				)
				if composite {
					components := make(map[string]float64, len(metrics))
					for _, m := range metrics {
						components[m.Component] = g.value(m, vi, progress)
					}
					record, err = entities.NewCompositeRecord(date, vendor, shift, components)
				} else {
					record, err = entities.NewBatchRecord(date, vendor, shift, g.value(metrics[0], vi, progress))
				}
				if err != nil {
					return nil, err
				}
				records = append(records, record)
			}
		}
	}
	return records, nil
}

// value draws one measurement: nominal + vendor bias + drift + noise, with an
// occasional spike, never negative. Values keep one decimal, or more for
// metrics whose spread is below 0.1.
func (g *Generator) value(m entities.Metric, vendorIndex int, progress float64) float64 {
	bias := float64(vendorIndex-2) * m.Spread * 0.15
	drift := (progress - 0.5) * m.Spread * 0.3
	noise := (g.rand.Float64() - 0.5) * m.Spread

	spike := 0.0
	if g.rand.Float64() < g.config.SpikeRate {
		if g.rand.Float64() > 0.5 {
			spike = 2 * m.Spread
		} else {
			spike = -2 * m.Spread
		}
	}

	v := m.Nominal + bias + drift + noise + spike
	if v < 0 {
		v = 0
	}
	scale := math.Pow(10, float64(decimals(m.Spread)))
	return math.Round(v*scale) / scale
}

func decimals(spread float64) int {
	n := 1
	for s := spread; s > 0 && s < 0.1 && n < 6; s *= 10 {
		n++
	}
	return n
}
