package models

import "time"

// Tier buckets a city's collected weight for the analytics map.
type Tier string

const (
	TierNormal   Tier = "normal"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
)

// CityRow is one line of the daily sheet.
type CityRow struct {
	City   string  `json:"city"`
	Weight float64 `json:"weight"`
}

// DailyReport is the computed daily sheet for a single date.
type DailyReport struct {
	Date            string    `json:"date"`
	NoData          bool      `json:"no_data"`
	Notice          string    `json:"notice,omitempty"`
	Rows            []CityRow `json:"rows"`
	TotalGeneration float64   `json:"total_generation"`
	TotalRecycled   float64   `json:"total_recycled"`
	Efficiency      float64   `json:"efficiency"`
	EfficiencyLabel string    `json:"efficiency_label"`
	Resistors       int64     `json:"resistors"`
	Capacitors      int64     `json:"capacitors"`
	Copper          float64   `json:"copper"`
}

// CityMarker is the colored per-city bubble on the analytics page.
type CityMarker struct {
	City   string  `json:"city"`
	Weight float64 `json:"weight"`
	Tier   Tier    `json:"tier"`
	Color  string  `json:"color"`
}

// IndustryBreakdown lists every recovered material for display.
type IndustryBreakdown struct {
	Resistors  int64   `json:"resistors"`
	Capacitors int64   `json:"capacitors"`
	Magnets    int64   `json:"magnets"`
	Iron       int64   `json:"iron"`
	Copper     float64 `json:"copper"`
	Silver     float64 `json:"silver"`
}

// TrendSeries feeds the bar + line combo chart. Bars follow Labels; the line
// follows TrendDates.
type TrendSeries struct {
	Labels     []string  `json:"labels"`
	Bars       []float64 `json:"bars"`
	TrendDates []string  `json:"trend_dates"`
	Trend      []float64 `json:"trend"`
}

// ComparisonPoint pairs a city's production with its estimated share of the
// day's recycled weight.
type ComparisonPoint struct {
	City       string  `json:"city"`
	Production float64 `json:"production"`
	Recycling  float64 `json:"recycling"`
}

// AnalyticsReport extends the daily sheet with markers, the full industry
// breakdown and chart series.
type AnalyticsReport struct {
	Date            string            `json:"date"`
	NoData          bool              `json:"no_data"`
	Notice          string            `json:"notice,omitempty"`
	MapNotice       string            `json:"map_notice,omitempty"`
	Rows            []CityRow         `json:"rows"`
	Markers         []CityMarker      `json:"markers"`
	TotalCollected  float64           `json:"total_collected"`
	TotalRecycled   float64           `json:"total_recycled"`
	Efficiency      float64           `json:"efficiency"`
	EfficiencyLabel string            `json:"efficiency_label"`
	Industry        IndustryBreakdown `json:"industry"`
	Trend           *TrendSeries      `json:"trend,omitempty"`
	Comparison      []ComparisonPoint `json:"comparison,omitempty"`
}

// DailySnapshot represents the archived daily digest stored in MongoDB.
type DailySnapshot struct {
	Date            string    `bson:"date" json:"date"`
	Cities          []CityRow `bson:"cities" json:"cities"`
	TotalGeneration float64   `bson:"total_generation" json:"total_generation"`
	TotalRecycled   float64   `bson:"total_recycled" json:"total_recycled"`
	Efficiency      float64   `bson:"efficiency" json:"efficiency"`
	Resistors       int64     `bson:"resistors" json:"resistors"`
	Capacitors      int64     `bson:"capacitors" json:"capacitors"`
	Copper          float64   `bson:"copper" json:"copper"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
