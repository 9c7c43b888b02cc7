// Package views holds the server-rendered pages of the dashboard.
package views

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

//go:embed templates/*.html
var files embed.FS

// Template names.
const (
	Dashboard    = "dashboard.html"
	Analytics    = "analytics.html"
	CityForm     = "city_form.html"
	IndustryForm = "industry_form.html"
)

// Templates parses every page together with the shared layout blocks.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"kg": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	}).ParseFS(files, "templates/*.html"))
}

// DashboardPage is the data behind the daily sheet.
type DashboardPage struct {
	Date   string
	Flash  string
	Report models.DailyReport
}

// AnalyticsPage is the data behind the analytics view. The chart versions
// change whenever a chart is redrawn so browsers fetch the new image.
type AnalyticsPage struct {
	Date              string
	Report            models.AnalyticsReport
	TrendVersion      uint64
	ComparisonVersion uint64
}

// CityFormPage re-renders the city entry form, keeping what was typed.
type CityFormPage struct {
	Error  string
	Cities []string
	Entry  models.CityEntryRequest
}

// IndustryFormPage re-renders the industry entry form, keeping what was typed.
type IndustryFormPage struct {
	Error string
	Entry models.IndustryEntryRequest
}
