// Package export writes a date's figures to an XLSX workbook.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

const (
	dailySheet = "Daily"
	trendSheet = "Trend"
)

// ErrNoData is returned when the requested date has nothing to export.
var ErrNoData = errors.New("no data recorded for this date")

// Build lays out the analytics view of a single date as a workbook with a
// Daily sheet and a Trend sheet. The caller owns the returned file.
func Build(report models.AnalyticsReport) (*excelize.File, error) {
	if report.NoData {
		return nil, ErrNoData
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), dailySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(trendSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("add trend sheet: %w", err)
	}

	if err := writeDaily(f, report); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeTrend(f, report.Trend); err != nil {
		_ = f.Close()
		return nil, err
	}

	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, report models.AnalyticsReport) error {
	f, err := Build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save builds the workbook and stores it at path.
func Save(path string, report models.AnalyticsReport) error {
	f, err := Build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeDaily(f *excelize.File, report models.AnalyticsReport) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	rows := [][]any{
		{"Date", report.Date},
		{},
		{"City", "Weight (kg)"},
	}
	for _, row := range report.Rows {
		rows = append(rows, []any{row.City, row.Weight})
	}
	rows = append(rows,
		[]any{},
		[]any{"Total Generation (kg)", report.TotalCollected},
		[]any{"Total Recycled (kg)", report.TotalRecycled},
		[]any{"Efficiency (%)", report.Efficiency},
		[]any{},
		[]any{"Resistors", report.Industry.Resistors},
		[]any{"Capacitors", report.Industry.Capacitors},
		[]any{"Magnets", report.Industry.Magnets},
		[]any{"Iron", report.Industry.Iron},
		[]any{"Copper (kg)", report.Industry.Copper},
		[]any{"Silver (kg)", report.Industry.Silver},
	)

	if err := writeRows(f, dailySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(dailySheet, "A3", "B3", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	return f.SetColWidth(dailySheet, "A", "A", 24)
}

func writeTrend(f *excelize.File, trend *models.TrendSeries) error {
	rows := [][]any{{"Date", "Recycled (kg)"}}
	if trend != nil {
		for i, date := range trend.TrendDates {
			rows = append(rows, []any{date, trend.Trend[i]})
		}
	}
	return writeRows(f, trendSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, r+1, err)
		}
	}
	return nil
}
