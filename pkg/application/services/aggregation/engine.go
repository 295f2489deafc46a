package aggregation

import (
	"fmt"
	"sort"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/domain/services"
)

// ============================================================================
// BATCH GROUPING
// ============================================================================
// One physical batch (date + shift) can be reported by several vendors. Every
// cross-vendor aggregate first averages within a batch, then across batches,
// so a batch weighs the same no matter how many vendors reported it.
// Groups keep first-seen order so repeated runs sum in the same order and
// produce bit-identical results.
// ============================================================================

type batchGroup struct {
	id    entities.BatchID
	date  time.Time
	shift entities.Shift
	sum   float64
	count int
}

func (g batchGroup) mean() float64 {
	return g.sum / float64(g.count)
}

// groupByBatch collects the metric's values per batch id. Records without a
// value for the metric are skipped.
func groupByBatch(records []entities.BatchRecord, metric entities.Metric) []batchGroup {
	index := make(map[entities.BatchID]int)
	groups := make([]batchGroup, 0)

	for _, record := range records {
		value, ok := metric.Extract(record)
		if !ok {
			continue
		}
		id := record.BatchID()
		i, exists := index[id]
		if !exists {
			i = len(groups)
			index[id] = i
			groups = append(groups, batchGroup{id: id, date: record.Date, shift: record.Shift})
		}
		groups[i].sum += value
		groups[i].count++
	}

	return groups
}

func meanOfGroups(groups []batchGroup) (float64, bool) {
	if len(groups) == 0 {
		return 0, false
	}
	var total float64
	for _, g := range groups {
		total += g.mean()
	}
	return total / float64(len(groups)), true
}

// ============================================================================
// SCALAR
// ============================================================================

// ScalarAverage returns the mean of per-batch averages over records, or 0 when
// no record carries the metric. Use Average to tell "no data" from a real 0.
func ScalarAverage(records []entities.BatchRecord, metric entities.Metric) float64 {
	v, _ := Average(records, metric)
	return v
}

// Average is ScalarAverage that also reports whether any batch contributed
func Average(records []entities.BatchRecord, metric entities.Metric) (float64, bool) {
	return meanOfGroups(groupByBatch(records, metric))
}

// ============================================================================
// BY VENDOR
// ============================================================================

// ByVendor returns one point per vendor, in the order given, each the
// batch-deduplicated average of that vendor's records
func ByVendor(records []entities.BatchRecord, metric entities.Metric, vendors []entities.VendorID) entities.VendorSeries {
	partitioned := partitionByVendor(records)

	series := make(entities.VendorSeries, 0, len(vendors))
	for _, vendor := range vendors {
		value, ok := Average(partitioned[vendor], metric)
		series = append(series, entities.VendorPoint{
			Vendor:  vendor,
			Value:   value,
			HasData: ok,
		})
	}
	return series
}

func partitionByVendor(records []entities.BatchRecord) map[entities.VendorID][]entities.BatchRecord {
	out := make(map[entities.VendorID][]entities.BatchRecord)
	for _, record := range records {
		out[record.Vendor] = append(out[record.Vendor], record)
	}
	return out
}

// ============================================================================
// BY PERIOD
// ============================================================================

// ByPeriod buckets records into calendar months or ISO weeks and returns one
// chronological row per non-empty bucket with a column per vendor. A vendor
// without records in a bucket has no column in that row.
func ByPeriod(records []entities.BatchRecord, metric entities.Metric, kind entities.PeriodKind, vendors []entities.VendorID) entities.PeriodSeries {
	buckets := make(map[time.Time][]entities.BatchRecord)
	for _, record := range records {
		start := PeriodStart(record.Date, kind)
		buckets[start] = append(buckets[start], record)
	}

	starts := make([]time.Time, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	series := make(entities.PeriodSeries, 0, len(starts))
	for _, start := range starts {
		partitioned := partitionByVendor(buckets[start])
		row := entities.PeriodRow{
			Label:  PeriodLabel(start, kind),
			Start:  start,
			Values: make(map[entities.VendorID]float64, len(vendors)),
		}
		for _, vendor := range vendors {
			if value, ok := Average(partitioned[vendor], metric); ok {
				row.Values[vendor] = value
			}
		}
		if len(row.Values) > 0 {
			series = append(series, row)
		}
	}
	return series
}

// PeriodStart returns the first day of the month, or the Monday of the ISO week, containing d
func PeriodStart(d time.Time, kind entities.PeriodKind) time.Time {
	d = entities.Day(d)
	if kind == entities.Weekly {
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	}
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodLabel renders a bucket start as "Jan 2026" or "2026-W03"
func PeriodLabel(start time.Time, kind entities.PeriodKind) string {
	if kind == entities.Weekly {
		year, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return start.Format("Jan 2006")
}

// ============================================================================
// DRILL-DOWN
// ============================================================================

// MetricCohort pairs a metric with the filtered records of its series
type MetricCohort struct {
	Metric  entities.Metric
	Records []entities.BatchRecord
}

// ByBatchDrilldown builds one BatchDetail per selected shift of the drill-down
// day. Each metric's batch value is the average over the vendors that reported
// the batch, and it is flagged when it deviates from the cohort baseline (the
// cohort's ScalarAverage) by more than the outlier threshold. Returns an empty
// slice when date is nil.
func ByBatchDrilldown(date *time.Time, shifts []entities.Shift, cohorts []MetricCohort) []entities.BatchDetail {
	details := make([]entities.BatchDetail, 0, len(shifts))
	if date == nil {
		return details
	}

	baselines := make([]float64, len(cohorts))
	batches := make([]map[entities.BatchID]batchGroup, len(cohorts))
	for i, cohort := range cohorts {
		groups := groupByBatch(cohort.Records, cohort.Metric)
		baselines[i], _ = meanOfGroups(groups)
		batches[i] = make(map[entities.BatchID]batchGroup, len(groups))
		for _, g := range groups {
			batches[i][g.id] = g
		}
	}

	for _, shift := range orderedShifts(shifts) {
		detail := entities.BatchDetail{
			BatchID: entities.NewBatchID(*date, shift),
			Date:    entities.Day(*date),
			Shift:   shift,
			Metrics: make([]entities.BatchMetric, 0, len(cohorts)),
		}
		for i, cohort := range cohorts {
			metric := entities.BatchMetric{
				Metric:   cohort.Metric.Name,
				Label:    cohort.Metric.Label,
				Unit:     cohort.Metric.Unit,
				Baseline: baselines[i],
			}
			if g, ok := batches[i][detail.BatchID]; ok {
				metric.Value = g.mean()
				metric.HasData = true
				metric.Outlier = services.IsOutlier(metric.Value, metric.Baseline)
			}
			detail.HasOutlier = detail.HasOutlier || metric.Outlier
			detail.Metrics = append(detail.Metrics, metric)
		}
		details = append(details, detail)
	}
	return details
}

// orderedShifts dedupes shifts into production order
func orderedShifts(shifts []entities.Shift) []entities.Shift {
	selected := make(map[entities.Shift]bool, len(shifts))
	for _, s := range shifts {
		selected[s] = true
	}
	out := make([]entities.Shift, 0, len(selected))
	for _, s := range entities.Shifts() {
		if selected[s] {
			out = append(out, s)
		}
	}
	return out
}
