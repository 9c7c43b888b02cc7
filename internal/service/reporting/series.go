package reporting

import (
	"sort"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

// BuildTrendSeries derives the combo chart data: the selected date's city
// weights as bars and the recovered weight of every stored date, ascending,
// as the line. When the date has no cities the dates themselves label the axis.
func BuildTrendSeries(db models.Database, date string) models.TrendSeries {
	series := models.TrendSeries{
		Labels: []string{},
		Bars:   []float64{},
	}

	if rec, ok := db.Record(date); ok {
		for _, entry := range rec.Cities {
			series.Labels = append(series.Labels, entry.City)
			series.Bars = append(series.Bars, entry.Weight)
		}
	}

	series.TrendDates = db.Dates()
	series.Trend = make([]float64, len(series.TrendDates))
	for i, d := range series.TrendDates {
		rec, _ := db.Record(d)
		series.Trend[i] = rec.Industry.Weight
	}

	if len(series.Labels) == 0 {
		series.Labels = append(series.Labels, series.TrendDates...)
	}

	return series
}

// BuildComparison allocates the day's recovered weight across cities in
// proportion to what each collected, ordered by ascending production. Ties
// keep the order cities were first recorded in.
func BuildComparison(rec *models.DateRecord) []models.ComparisonPoint {
	if rec == nil {
		return []models.ComparisonPoint{}
	}

	total := rec.Cities.Total()
	if total == 0 {
		total = 1
	}

	points := make([]models.ComparisonPoint, 0, len(rec.Cities))
	for _, entry := range rec.Cities {
		points = append(points, models.ComparisonPoint{
			City:       entry.City,
			Production: entry.Weight,
			Recycling:  entry.Weight / total * rec.Industry.Weight,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Production < points[j].Production
	})

	return points
}
