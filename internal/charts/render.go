package charts

import (
	"bytes"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

const (
	chartWidth  = 800
	chartHeight = 400
)

var (
	colorProduction = drawing.ColorFromHex("00b894")
	colorTrend      = drawing.ColorFromHex("0984e3")
	colorRecycling  = drawing.ColorFromHex("d63031")
)

// renderTrend draws city bars for the selected date and the recovered-weight
// line across every date on a shared category axis. The bool is false when
// there is nothing to plot.
func renderTrend(series models.TrendSeries) ([]byte, bool, error) {
	var plotted []chart.Series

	if len(series.Bars) > 0 {
		plotted = append(plotted, chart.HistogramSeries{
			Name: "City Production (Current Day)",
			Style: chart.Style{
				FillColor:   colorProduction,
				StrokeColor: colorProduction,
				StrokeWidth: 1,
			},
			InnerSeries: chart.ContinuousSeries{XValues: indexes(len(series.Bars)), YValues: series.Bars},
		})
	}

	if len(series.Trend) > 0 {
		plotted = append(plotted, chart.ContinuousSeries{
			Name: "Monthly Recycling Trend (kg)",
			Style: chart.Style{
				StrokeColor: colorTrend,
				StrokeWidth: 2,
				DotColor:    colorTrend,
				DotWidth:    3,
			},
			XValues: indexes(len(series.Trend)),
			YValues: series.Trend,
		})
	}

	if len(plotted) == 0 {
		return nil, false, nil
	}

	categories := max(len(series.Labels), len(series.Bars), len(series.Trend))
	ch := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis:  chart.XAxis{Ticks: categoryTicks(series.Labels, categories)},
		YAxis:  chart.YAxis{Range: zeroBasedRange(series.Bars, series.Trend)},
		Series: plotted,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return encodePNG(ch)
}

// renderComparison draws production and estimated recycling per city, in the
// order the points are given.
func renderComparison(points []models.ComparisonPoint) ([]byte, bool, error) {
	if len(points) == 0 {
		return nil, false, nil
	}

	labels := make([]string, len(points))
	production := make([]float64, len(points))
	recycling := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.City
		production[i] = p.Production
		recycling[i] = p.Recycling
	}

	xs := indexes(len(points))
	ch := chart.Chart{
		Title:  "Production vs Recycling (Low to High)",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{Ticks: categoryTicks(labels, len(points))},
		YAxis: chart.YAxis{Name: "Weight (kg)", Range: zeroBasedRange(production, recycling)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Production (Blue)",
				Style:   lineStyle(colorTrend),
				XValues: xs,
				YValues: production,
			},
			chart.ContinuousSeries{
				Name:    "Recycling (Red)",
				Style:   lineStyle(colorRecycling),
				XValues: xs,
				YValues: recycling,
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return encodePNG(ch)
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 3,
		DotColor:    col,
		DotWidth:    5,
	}
}

func encodePNG(ch chart.Chart) ([]byte, bool, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

func indexes(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// categoryTicks labels integer positions and pads half a slot on each side;
// go-chart derives the x range from the tick extent.
func categoryTicks(labels []string, n int) []chart.Tick {
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i := 0; i < n; i++ {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}
	return append(ticks, chart.Tick{Value: float64(n) - 0.5})
}

func zeroBasedRange(series ...[]float64) *chart.ContinuousRange {
	top := 0.0
	for _, values := range series {
		for _, v := range values {
			top = max(top, v)
		}
	}
	if top == 0 {
		top = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: top * 1.1}
}
