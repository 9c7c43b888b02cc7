package reporting

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/charts"
	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/repository"
)

const (
	dateLayout = "2006-01-02"

	NoticeNoData     = "No data recorded for this date."
	NoticeSelectDate = "Select a valid date to view data."

	criticalAbove = 200.0
	warningAbove  = 100.0
)

var tierColors = map[models.Tier]string{
	models.TierCritical: "#d63031",
	models.TierWarning:  "#e67e22",
	models.TierNormal:   "#00b894",
}

// ChartBoard receives the derived series of the analytics view.
type ChartBoard interface {
	DrawTrend(series models.TrendSeries) (*charts.Instance, error)
	DrawComparison(points []models.ComparisonPoint) (*charts.Instance, error)
	Clear()
}

// Service computes the daily sheet and the analytics view from the stored database.
type Service struct {
	store  repository.Store
	charts ChartBoard
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance. charts may be nil when
// only tabular reports are needed.
func NewService(store repository.Store, charts ChartBoard, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, charts: charts, logger: logger, now: time.Now}
}

// Daily builds the daily sheet for date. A blank or unknown date yields a
// report flagged NoData rather than an error.
func (s *Service) Daily(ctx context.Context, date string) (models.DailyReport, error) {
	date = strings.TrimSpace(date)
	report := models.DailyReport{Date: date, Rows: []models.CityRow{}}

	db, err := s.store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load database: %w", err)
	}

	rec, ok := lookup(db, date)
	if !ok {
		report.NoData = true
		report.Notice = NoticeNoData
		return report, nil
	}

	for _, entry := range rec.Cities {
		report.TotalGeneration += entry.Weight
		report.Rows = append(report.Rows, models.CityRow{City: entry.City, Weight: entry.Weight})
	}

	report.TotalRecycled = rec.Industry.Weight
	report.Efficiency, report.EfficiencyLabel = Efficiency(rec.Industry.Weight, report.TotalGeneration)
	report.Resistors = rec.Industry.Res
	report.Capacitors = rec.Industry.Cap
	report.Copper = rec.Industry.Cop

	return report, nil
}

// Analytics builds the analytics view for date and redraws both charts. On a
// blank or unknown date every chart is released.
func (s *Service) Analytics(ctx context.Context, date string) (models.AnalyticsReport, error) {
	report, err := s.Compute(ctx, date)
	if err != nil {
		return report, err
	}

	if s.charts == nil {
		return report, nil
	}
	if report.NoData {
		s.charts.Clear()
		return report, nil
	}
	if _, err := s.charts.DrawTrend(*report.Trend); err != nil {
		s.logger.Warn("trend chart not drawn", zap.Error(err))
	}
	if _, err := s.charts.DrawComparison(report.Comparison); err != nil {
		s.logger.Warn("comparison chart not drawn", zap.Error(err))
	}

	return report, nil
}

// Compute builds the analytics view for date without touching the charts.
func (s *Service) Compute(ctx context.Context, date string) (models.AnalyticsReport, error) {
	date = strings.TrimSpace(date)
	report := models.AnalyticsReport{Date: date, Rows: []models.CityRow{}, Markers: []models.CityMarker{}}

	db, err := s.store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load database: %w", err)
	}

	rec, ok := lookup(db, date)
	if !ok {
		report.NoData = true
		report.Notice = NoticeNoData
		report.MapNotice = NoticeSelectDate
		return report, nil
	}

	for _, entry := range rec.Cities {
		report.TotalCollected += entry.Weight
		report.Rows = append(report.Rows, models.CityRow{City: entry.City, Weight: entry.Weight})
		tier := TierFor(entry.Weight)
		report.Markers = append(report.Markers, models.CityMarker{
			City:   entry.City,
			Weight: entry.Weight,
			Tier:   tier,
			Color:  tierColors[tier],
		})
	}

	ind := rec.Industry
	report.TotalRecycled = ind.Weight
	report.Efficiency, report.EfficiencyLabel = Efficiency(ind.Weight, report.TotalCollected)
	report.Industry = models.IndustryBreakdown{
		Resistors:  ind.Res,
		Capacitors: ind.Cap,
		Magnets:    ind.Mag,
		Iron:       ind.Iron,
		Copper:     ind.Cop,
		Silver:     ind.Sil,
	}

	trend := BuildTrendSeries(db, date)
	report.Trend = &trend
	report.Comparison = BuildComparison(rec)

	return report, nil
}

// Today formats the current date in loc the way dates are keyed.
func (s *Service) Today(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return s.now().In(loc).Format(dateLayout)
}

// Efficiency returns recycled/collected as a percentage rounded to one
// decimal place, together with its display label. It is 0 (label "0") when
// nothing was collected.
func Efficiency(recycled, collected float64) (float64, string) {
	if collected == 0 {
		return 0, "0"
	}
	// Round the exact binary value of the float ratio, halves away from zero.
	ratio := recycled / collected * 100
	pct := decimal.RequireFromString(strconv.FormatFloat(ratio, 'f', 30, 64)).Round(1)
	return pct.InexactFloat64(), pct.StringFixed(1)
}

// TierFor buckets a city weight: above 200 kg is critical, above 100 kg is a
// warning, anything else is normal.
func TierFor(weight float64) models.Tier {
	switch {
	case weight > criticalAbove:
		return models.TierCritical
	case weight > warningAbove:
		return models.TierWarning
	default:
		return models.TierNormal
	}
}

func lookup(db models.Database, date string) (*models.DateRecord, bool) {
	if date == "" {
		return nil, false
	}
	return db.Record(date)
}
