package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func TestDashboardRendersSheet(t *testing.T) {
	html := render(t, Dashboard, DashboardPage{
		Date:  "2024-01-01",
		Flash: "Success: 150kg added to Springfield for 2024-01-01",
		Report: models.DailyReport{
			Date:            "2024-01-01",
			Rows:            []models.CityRow{{City: "Springfield", Weight: 150}},
			TotalGeneration: 150,
			TotalRecycled:   75,
			EfficiencyLabel: "50.0",
			Copper:          1.5,
		},
	})

	assert.Contains(t, html, "<td>Springfield</td><td>150</td>")
	assert.Contains(t, html, "50.0%")
	assert.Contains(t, html, "1.5 kg")
	assert.Contains(t, html, "Success: 150kg added to Springfield")
}

func TestDashboardRendersNotice(t *testing.T) {
	html := render(t, Dashboard, DashboardPage{Report: models.DailyReport{NoData: true, Notice: "No data recorded for this date."}})

	assert.Contains(t, html, "No data recorded for this date.")
	assert.NotContains(t, html, "<table>")
}

func TestAnalyticsRendersMarkersAndCharts(t *testing.T) {
	html := render(t, Analytics, AnalyticsPage{
		Date: "2024-01-01",
		Report: models.AnalyticsReport{
			Markers: []models.CityMarker{{City: "Springfield", Weight: 250, Tier: models.TierCritical, Color: "#d63031"}},
		},
		TrendVersion: 3,
	})

	assert.Contains(t, html, "tier-critical")
	assert.Contains(t, html, "#d63031")
	assert.Contains(t, html, "/charts/trend.png?v=3")
	assert.NotContains(t, html, "/charts/comparison.png")
}

func TestFormsKeepTypedValues(t *testing.T) {
	html := render(t, CityForm, CityFormPage{
		Error:  "Enter valid date and weight!",
		Cities: []string{"Springfield", "Shelbyville"},
		Entry:  models.CityEntryRequest{Date: "2024-01-01", City: "Shelbyville", Weight: "abc"},
	})
	assert.Contains(t, html, "Enter valid date and weight!")
	assert.Contains(t, html, `<option value="Shelbyville" selected>`)
	assert.Contains(t, html, `value="abc"`)

	html = render(t, IndustryForm, IndustryFormPage{Error: "Select date first!", Entry: models.IndustryEntryRequest{Cop: "1.5"}})
	assert.Contains(t, html, "Select date first!")
	assert.Contains(t, html, `name="cop" value="1.5"`)
}
