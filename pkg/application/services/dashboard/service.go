package dashboard

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/qadash/pkg/application/dto"
	"github.com/vsinha/qadash/pkg/application/services/aggregation"
	"github.com/vsinha/qadash/pkg/application/services/filter"
	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/domain/repositories"
	"github.com/vsinha/qadash/pkg/domain/services"
)

// ErrUnknownMetric is returned for a metric name missing from the catalog
var ErrUnknownMetric = errors.New("unknown metric")

// OverallHealthName names the health index across every selected category
const OverallHealthName = "Overall"

// Service is the dashboard's read API. Every call takes one filter snapshot,
// filters the immutable record store and aggregates from scratch; nothing is
// cached between calls. Until the filter controller is started every view
// reports no data.
type Service struct {
	repo    repositories.BatchRepository
	filters *filter.Controller
	logger  *slog.Logger
}

// NewService creates a dashboard service over repo and filters
func NewService(repo repositories.BatchRepository, filters *filter.Controller, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		filters: filters,
		logger:  logger,
	}
}

// Filters returns the filter controller; its setters are the write side of the API
func (s *Service) Filters() *filter.Controller {
	return s.filters
}

// FilterState returns the current filter snapshot
func (s *Service) FilterState() entities.FilterState {
	return s.filters.State()
}

// Metrics returns the metric catalog
func (s *Service) Metrics() []entities.Metric {
	return entities.Metrics()
}

// ComputeScalar returns the batch-deduplicated average of a metric, rounded for display
func (s *Service) ComputeScalar(name entities.MetricName) (entities.Scalar, error) {
	metric, err := lookupMetric(name)
	if err != nil {
		return entities.Scalar{}, err
	}
	state := s.filters.State()
	return s.scalar(metric, state, s.filters.Today()), nil
}

// ComputeByVendor returns one point per selected vendor
func (s *Service) ComputeByVendor(name entities.MetricName) (entities.VendorSeries, error) {
	metric, err := lookupMetric(name)
	if err != nil {
		return nil, err
	}
	state := s.filters.State()
	return s.byVendor(metric, state, s.filters.Today()), nil
}

// ComputeByPeriod returns the monthly or weekly trend with one column per selected vendor
func (s *Service) ComputeByPeriod(name entities.MetricName, kind entities.PeriodKind) (entities.PeriodSeries, error) {
	metric, err := lookupMetric(name)
	if err != nil {
		return nil, err
	}
	state := s.filters.State()
	return s.byPeriod(metric, kind, state, s.filters.Today()), nil
}

// ComputeDrilldown returns one BatchDetail per selected shift of the drill-down
// day, or an empty slice when no drill-down date is set
func (s *Service) ComputeDrilldown() []entities.BatchDetail {
	state := s.filters.State()
	return s.drilldown(state, s.filters.Today())
}

// HealthIndex returns the overall health index followed by one per selected category
func (s *Service) HealthIndex() []entities.HealthIndex {
	state := s.filters.State()
	return s.health(state, s.filters.Today())
}

// CriticalAlerts lists every selected vendor whose average for a selected metric
// lies outside the tolerance band, most severe first
func (s *Service) CriticalAlerts() []entities.Alert {
	state := s.filters.State()
	return s.alerts(state, s.filters.Today())
}

// Snapshot computes every view from a single filter snapshot
func (s *Service) Snapshot() dto.DashboardSnapshot {
	state := s.filters.State()
	today := s.filters.Today()

	snapshot := dto.DashboardSnapshot{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Today:       today.Format(entities.DateLayout),
		Filters:     state,
		Drilldown:   s.drilldown(state, today),
		Health:      s.health(state, today),
		Alerts:      s.alerts(state, today),
	}

	for _, metric := range selectedMetrics(state) {
		scalar := s.scalar(metric, state, today)
		snapshot.Metrics = append(snapshot.Metrics, dto.MetricSummary{
			Name:     metric.Name,
			Label:    metric.Label,
			Unit:     metric.Unit,
			Category: metric.Category,
			Min:      metric.Min,
			Max:      metric.Max,
			Scalar:   scalar,
			InRange:  scalar.HasData && metric.InRange(scalar.Value),
			ByVendor: s.byVendor(metric, state, today),
			Monthly:  s.byPeriod(metric, entities.Monthly, state, today),
		})
	}

	s.logger.Debug("dashboard snapshot computed",
		"id", snapshot.ID,
		"metrics", len(snapshot.Metrics),
		"drilldown", len(snapshot.Drilldown),
		"alerts", len(snapshot.Alerts))

	return snapshot
}

func (s *Service) scalar(metric entities.Metric, state entities.FilterState, today time.Time) entities.Scalar {
	value, ok := aggregation.Average(s.cohort(metric, state, today), metric)
	return entities.Scalar{
		Metric:  metric.Name,
		Label:   metric.Label,
		Value:   services.Round2(value),
		HasData: ok,
	}
}

func (s *Service) byVendor(metric entities.Metric, state entities.FilterState, today time.Time) entities.VendorSeries {
	vendors := state.Vendors.Expand(entities.Vendors())
	series := aggregation.ByVendor(s.cohort(metric, state, today), metric, vendors)
	for i := range series {
		series[i].Value = services.Round2(series[i].Value)
	}
	return series
}

func (s *Service) byPeriod(metric entities.Metric, kind entities.PeriodKind, state entities.FilterState, today time.Time) entities.PeriodSeries {
	vendors := state.Vendors.Expand(entities.Vendors())
	series := aggregation.ByPeriod(s.cohort(metric, state, today), metric, kind, vendors)
	for i := range series {
		for vendor, v := range series[i].Values {
			series[i].Values[vendor] = services.Round2(v)
		}
	}
	return series
}

func (s *Service) drilldown(state entities.FilterState, today time.Time) []entities.BatchDetail {
	if state.DrilldownDate == nil {
		return []entities.BatchDetail{}
	}

	metrics := selectedMetrics(state)
	cohorts := make([]aggregation.MetricCohort, 0, len(metrics))
	for _, metric := range metrics {
		cohorts = append(cohorts, aggregation.MetricCohort{
			Metric:  metric,
			Records: s.cohort(metric, state, today),
		})
	}

	details := aggregation.ByBatchDrilldown(state.DrilldownDate, state.SelectedShifts(), cohorts)
	for i := range details {
		for j := range details[i].Metrics {
			m := &details[i].Metrics[j]
			m.Value = services.Round2(m.Value)
			m.Baseline = services.Round2(m.Baseline)
		}
	}
	return details
}

func (s *Service) health(state entities.FilterState, today time.Time) []entities.HealthIndex {
	overall := entities.HealthIndex{Name: OverallHealthName}
	perCategory := make(map[entities.Category]*entities.HealthIndex)
	categories := state.Categories.Expand(entities.Categories())
	for _, c := range categories {
		perCategory[c] = &entities.HealthIndex{Name: string(c)}
	}

	for _, metric := range selectedMetrics(state) {
		value, ok := aggregation.Average(s.cohort(metric, state, today), metric)
		if !ok {
			continue
		}
		idx := perCategory[metric.Category]
		idx.Tracked++
		overall.Tracked++
		if metric.InRange(value) {
			idx.InRange++
			overall.InRange++
		}
	}

	out := []entities.HealthIndex{finishHealth(overall)}
	for _, c := range categories {
		out = append(out, finishHealth(*perCategory[c]))
	}
	return out
}

func (s *Service) alerts(state entities.FilterState, today time.Time) []entities.Alert {
	vendors := state.Vendors.Expand(entities.Vendors())
	out := []entities.Alert{}
	for _, metric := range selectedMetrics(state) {
		for _, point := range aggregation.ByVendor(s.cohort(metric, state, today), metric, vendors) {
			if !point.HasData {
				continue
			}
			severity, flagged := services.AlertSeverity(metric, point.Value)
			if !flagged {
				continue
			}
			out = append(out, entities.Alert{
				Metric:   metric.Name,
				Label:    metric.Label,
				Category: metric.Category,
				Vendor:   point.Vendor,
				Value:    services.Round2(point.Value),
				Min:      metric.Min,
				Max:      metric.Max,
				Severity: severity,
			})
		}
	}
	// Stable, so ties keep catalog then vendor order
	slices.SortStableFunc(out, func(a, b entities.Alert) int {
		return cmp.Compare(b.Severity, a.Severity)
	})
	return out
}

func finishHealth(h entities.HealthIndex) entities.HealthIndex {
	if h.Tracked > 0 {
		h.Index = int(math.Round(float64(h.InRange) / float64(h.Tracked) * 100))
	}
	return h
}

// cohort returns the records of metric's series matching state. It is empty
// until the controller is ready, and a series missing from the store is
// logged and treated as having no records.
func (s *Service) cohort(metric entities.Metric, state entities.FilterState, today time.Time) []entities.BatchRecord {
	if !s.filters.Ready() {
		return nil
	}

	var (
		records []entities.BatchRecord
		err     error
	)
	if state.DrilldownDate != nil {
		records, err = s.repo.GetRecordsForDate(metric.Series, *state.DrilldownDate)
	} else {
		records, err = s.repo.GetRecords(metric.Series)
	}
	if err != nil {
		s.logger.Warn("no records for metric", "metric", metric.Name, "series", metric.Series, "error", err)
		return nil
	}

	return services.NewRecordFilter(state, today).Apply(records)
}

func selectedMetrics(state entities.FilterState) []entities.Metric {
	var out []entities.Metric
	for _, m := range entities.Metrics() {
		if state.Categories.Contains(m.Category) {
			out = append(out, m)
		}
	}
	return out
}

func lookupMetric(name entities.MetricName) (entities.Metric, error) {
	metric, ok := entities.LookupMetric(name)
	if !ok {
		return entities.Metric{}, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}
	return metric, nil
}
