package reporting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

// Digest renders the daily sheet as a short chat message.
func Digest(report models.DailyReport) string {
	if report.NoData {
		return fmt.Sprintf("EcoTrack daily sheet %s: %s", displayDate(report.Date), NoticeNoData)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "EcoTrack daily sheet %s\n", report.Date)
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "- %s: %s kg\n", row.City, FormatKg(row.Weight))
	}
	fmt.Fprintf(&b, "Total Generation: %s kg\n", FormatKg(report.TotalGeneration))
	fmt.Fprintf(&b, "Total Recycled: %s kg\n", FormatKg(report.TotalRecycled))
	fmt.Fprintf(&b, "Efficiency: %s%%\n", report.EfficiencyLabel)
	fmt.Fprintf(&b, "Resistors: %d units, Capacitors: %d units, Copper: %s kg", report.Resistors, report.Capacitors, FormatKg(report.Copper))
	return b.String()
}

// Snapshot converts a daily sheet into its archived form.
func Snapshot(report models.DailyReport, createdAt time.Time) models.DailySnapshot {
	return models.DailySnapshot{
		Date:            report.Date,
		Cities:          report.Rows,
		TotalGeneration: report.TotalGeneration,
		TotalRecycled:   report.TotalRecycled,
		Efficiency:      report.Efficiency,
		Resistors:       report.Resistors,
		Capacitors:      report.Capacitors,
		Copper:          report.Copper,
		CreatedAt:       createdAt.UTC(),
	}
}

// FormatKg prints a weight with no trailing zeros.
func FormatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func displayDate(date string) string {
	if date == "" {
		return "(no date)"
	}
	return date
}
