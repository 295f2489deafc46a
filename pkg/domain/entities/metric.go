package entities

// MetricName identifies a tracked quality metric
type MetricName string

// Category groups metrics by production stage or supply-chain concern
type Category string

// AllCategoriesLabel is the option label that stands for every category
const AllCategoriesLabel = "All Categories"

const (
	RawMaterials      Category = "Raw Materials"
	DoughPreparation  Category = "Dough Preparation"
	Baking            Category = "Baking"
	Operational       Category = "Operational"
	VendorPerformance Category = "Vendor Performance"
	Compliance        Category = "Compliance & Audit"
)

// Categories returns the categories in display order
func Categories() []Category {
	return []Category{RawMaterials, DoughPreparation, Baking, Operational, VendorPerformance, Compliance}
}

// IsKnownCategory reports whether c is one of the fixed categories
func IsKnownCategory(c Category) bool {
	for _, known := range Categories() {
		if known == c {
			return true
		}
	}
	return false
}

// Series held by the record store
const (
	OvenTemperatureSeries  SeriesName = "oven_temperature"
	RejectionRateSeries    SeriesName = "rejection_rate"
	BatchConsistencySeries SeriesName = "batch_consistency"
	MoistureContentSeries  SeriesName = "moisture_content"
	ProductionYieldSeries  SeriesName = "production_yield"
	RawMaterialSeries      SeriesName = "raw_material"
	DoughSeries            SeriesName = "dough_preparation"
	BakingSeries           SeriesName = "baking"
	MaterialSafetySeries   SeriesName = "material_safety"
	VendorScorecardSeries  SeriesName = "vendor_scorecard"
	ComplianceSeries       SeriesName = "compliance"
)

// Metric describes how to read one quantity out of a series and what its tolerance band is.
// Nominal and Spread seed the synthetic generator.
type Metric struct {
	Name      MetricName
	Label     string
	Unit      string
	Category  Category
	Series    SeriesName
	Component string
	Min       float64
	Max       float64
	Nominal   float64
	Spread    float64
}

// Extract returns the value this metric tracks from r
func (m Metric) Extract(r BatchRecord) (float64, bool) {
	if m.Component == "" {
		if r.IsComposite() {
			return 0, false
		}
		return r.Value, true
	}
	return r.Component(m.Component)
}

// InRange reports whether v lies inside the tolerance band, bounds included
func (m Metric) InRange(v float64) bool {
	return v >= m.Min && v <= m.Max
}

var metricCatalog = []Metric{
	{Name: "oven_temperature", Label: "Oven Temperature", Unit: "°C", Category: Baking, Series: OvenTemperatureSeries, Min: 215, Max: 245, Nominal: 230, Spread: 12},
	{Name: "rejection_rate", Label: "Rejection Rate", Unit: "%", Category: Operational, Series: RejectionRateSeries, Min: 0, Max: 10, Nominal: 4, Spread: 2},
	{Name: "batch_consistency", Label: "Batch Consistency Score", Unit: "score", Category: Operational, Series: BatchConsistencySeries, Min: 88, Max: 96, Nominal: 92, Spread: 3},
	{Name: "moisture_content", Label: "Moisture Content", Unit: "%", Category: Baking, Series: MoistureContentSeries, Min: 11, Max: 14, Nominal: 12.5, Spread: 1.2},
	{Name: "production_yield", Label: "Production Yield", Unit: "%", Category: Operational, Series: ProductionYieldSeries, Min: 85, Max: 100, Nominal: 92.5, Spread: 3},

	{Name: "flour_moisture", Label: "Flour Moisture Content", Unit: "%", Category: RawMaterials, Series: RawMaterialSeries, Component: "flour_moisture", Min: 10, Max: 15, Nominal: 12.5, Spread: 1},
	{Name: "gluten_strength", Label: "Gluten Strength", Unit: "%", Category: RawMaterials, Series: RawMaterialSeries, Component: "gluten_strength", Min: 20, Max: 40, Nominal: 32.4, Spread: 2},
	{Name: "sugar_content", Label: "Sugar Content in Dough", Unit: "%", Category: RawMaterials, Series: RawMaterialSeries, Component: "sugar_content", Min: 20, Max: 30, Nominal: 22.8, Spread: 1.5},
	{Name: "fat_content", Label: "Fat Content in Dough", Unit: "%", Category: RawMaterials, Series: RawMaterialSeries, Component: "fat_content", Min: 10, Max: 25, Nominal: 18.5, Spread: 1.5},
	{Name: "leavening_quality", Label: "Leavening Agent Quality", Unit: "% active", Category: RawMaterials, Series: RawMaterialSeries, Component: "leavening_quality", Min: 95, Max: 100, Nominal: 97.2, Spread: 1},
	{Name: "water_ph", Label: "Water Quality", Unit: "pH", Category: RawMaterials, Series: RawMaterialSeries, Component: "water_ph", Min: 6.5, Max: 7.5, Nominal: 7.1, Spread: 0.3},

	{Name: "dough_temperature", Label: "Dough Temperature", Unit: "°C", Category: DoughPreparation, Series: DoughSeries, Component: "temperature", Min: 20, Max: 30, Nominal: 25.6, Spread: 1.5},
	{Name: "dough_consistency", Label: "Dough Consistency", Unit: "BU", Category: DoughPreparation, Series: DoughSeries, Component: "consistency", Min: 400, Max: 600, Nominal: 475, Spread: 30},
	{Name: "mixing_time", Label: "Mixing Time", Unit: "min", Category: DoughPreparation, Series: DoughSeries, Component: "mixing_time", Min: 8, Max: 20, Nominal: 14.5, Spread: 1.5},
	{Name: "resting_time", Label: "Dough Resting Time", Unit: "min", Category: DoughPreparation, Series: DoughSeries, Component: "resting_time", Min: 10, Max: 30, Nominal: 22.5, Spread: 2},
	{Name: "dough_thickness", Label: "Dough Thickness", Unit: "mm", Category: DoughPreparation, Series: DoughSeries, Component: "thickness", Min: 2, Max: 5, Nominal: 3.8, Spread: 0.4},
	{Name: "dough_ph", Label: "pH of Dough", Unit: "", Category: DoughPreparation, Series: DoughSeries, Component: "ph", Min: 5, Max: 7, Nominal: 5.8, Spread: 0.3},

	{Name: "baking_oven_temperature", Label: "Baking Oven Temperature", Unit: "°C", Category: Baking, Series: BakingSeries, Component: "oven_temperature", Min: 150, Max: 250, Nominal: 180.5, Spread: 5},
	{Name: "baking_time", Label: "Baking Time", Unit: "min", Category: Baking, Series: BakingSeries, Component: "baking_time", Min: 5, Max: 20, Nominal: 12.5, Spread: 1},
	{Name: "moisture_loss", Label: "Moisture Loss During Baking", Unit: "%", Category: Baking, Series: BakingSeries, Component: "moisture_loss", Min: 10, Max: 15, Nominal: 12.8, Spread: 0.8},
	{Name: "oven_humidity", Label: "Oven Humidity", Unit: "%", Category: Baking, Series: BakingSeries, Component: "oven_humidity", Min: 5, Max: 20, Nominal: 14.5, Spread: 1.5},
	{Name: "crumb_temperature", Label: "Crumb Temperature Post-Baking", Unit: "°C", Category: Baking, Series: BakingSeries, Component: "crumb_temperature", Min: 90, Max: 100, Nominal: 95.2, Spread: 1.5},

	// Incoming material safety, per delivery. Lower is better for the first two.
	{Name: "adulteration_index", Label: "Adulteration Index", Unit: "index", Category: RawMaterials, Series: MaterialSafetySeries, Component: "adulteration_index", Min: 0, Max: 0.05, Nominal: 0.032, Spread: 0.012},
	{Name: "microbial_load", Label: "Microbial Load", Unit: "CFU/mL", Category: RawMaterials, Series: MaterialSafetySeries, Component: "microbial_load", Min: 0, Max: 3000, Nominal: 2300, Spread: 400},
	{Name: "shelf_life", Label: "Shelf Life Prediction", Unit: "days", Category: RawMaterials, Series: MaterialSafetySeries, Component: "shelf_life", Min: 10, Max: 16, Nominal: 12, Spread: 1.5},

	{Name: "quality_score", Label: "Quality Score", Unit: "score", Category: VendorPerformance, Series: VendorScorecardSeries, Component: "quality_score", Min: 80, Max: 100, Nominal: 82.4, Spread: 5},
	{Name: "on_time_delivery", Label: "On-Time Delivery", Unit: "%", Category: VendorPerformance, Series: VendorScorecardSeries, Component: "on_time_delivery", Min: 85, Max: 100, Nominal: 91.5, Spread: 3},
	{Name: "reliability_score", Label: "Vendor Reliability Score", Unit: "score", Category: VendorPerformance, Series: VendorScorecardSeries, Component: "reliability_score", Min: 80, Max: 100, Nominal: 87, Spread: 4},

	{Name: "audit_pass_rate", Label: "Audit Pass Rate", Unit: "%", Category: Compliance, Series: ComplianceSeries, Component: "audit_pass_rate", Min: 90, Max: 100, Nominal: 91.8, Spread: 4},
	{Name: "compliance_risk", Label: "Compliance Risk Score", Unit: "score", Category: Compliance, Series: ComplianceSeries, Component: "compliance_risk", Min: 0, Max: 25, Nominal: 23, Spread: 8},
}

// Metrics returns the metric catalog in display order
func Metrics() []Metric {
	out := make([]Metric, len(metricCatalog))
	copy(out, metricCatalog)
	return out
}

// LookupMetric finds a metric by name
func LookupMetric(name MetricName) (Metric, bool) {
	for _, m := range metricCatalog {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// SeriesMetrics returns the metrics read from one series, in catalog order
func SeriesMetrics(series SeriesName) []Metric {
	var out []Metric
	for _, m := range metricCatalog {
		if m.Series == series {
			out = append(out, m)
		}
	}
	return out
}

// SeriesNames returns every series referenced by the catalog, in first-seen order
func SeriesNames() []SeriesName {
	seen := make(map[SeriesName]bool)
	var out []SeriesName
	for _, m := range metricCatalog {
		if !seen[m.Series] {
			seen[m.Series] = true
			out = append(out, m.Series)
		}
	}
	return out
}
