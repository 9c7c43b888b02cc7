package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/charts"
	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/export"
	"github.com/mamadbah2/ecotrack/internal/server/views"
	"github.com/mamadbah2/ecotrack/internal/service/reporting"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Reporter computes the daily sheet and the analytics view.
type Reporter interface {
	Daily(ctx context.Context, date string) (models.DailyReport, error)
	Analytics(ctx context.Context, date string) (models.AnalyticsReport, error)
	Compute(ctx context.Context, date string) (models.AnalyticsReport, error)
	Today(loc *time.Location) string
}

// ChartSource exposes the live chart of each slot.
type ChartSource interface {
	Current(slot charts.Slot) (*charts.Instance, bool)
}

// ReportHandler serves the report pages, their JSON variants, chart images
// and the spreadsheet export.
type ReportHandler struct {
	reporting Reporter
	charts    ChartSource
	loc       *time.Location
	logger    *zap.Logger
}

// NewReportHandler constructs the report handler. loc decides which day a
// request without a date parameter refers to.
func NewReportHandler(reporting Reporter, charts ChartSource, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{reporting: reporting, charts: charts, loc: loc, logger: logger}
}

// Dashboard renders the daily sheet.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	date := h.selectedDate(c)

	report, err := h.reporting.Daily(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}

	flash, _ := c.Cookie(flashCookie)
	if flash != "" {
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}

	c.HTML(http.StatusOK, views.Dashboard, views.DashboardPage{Date: date, Flash: flash, Report: report})
}

// Analytics renders the analytics view and redraws the charts.
func (h *ReportHandler) Analytics(c *gin.Context) {
	date := h.selectedDate(c)

	report, err := h.reporting.Analytics(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, views.Analytics, views.AnalyticsPage{
		Date:              date,
		Report:            report,
		TrendVersion:      h.version(charts.SlotTrend),
		ComparisonVersion: h.version(charts.SlotComparison),
	})
}

// DailyJSON returns the daily sheet as JSON.
func (h *ReportHandler) DailyJSON(c *gin.Context) {
	report, err := h.reporting.Daily(c.Request.Context(), h.selectedDate(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsJSON returns the analytics view with its chart series as JSON.
// Charts are redrawn exactly as for the page.
func (h *ReportHandler) AnalyticsJSON(c *gin.Context) {
	report, err := h.reporting.Analytics(c.Request.Context(), h.selectedDate(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Chart streams the live PNG of a slot, e.g. /charts/trend.png.
func (h *ReportHandler) Chart(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("file"), ".png")
	slot, err := charts.ParseSlot(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if h.charts != nil {
		if inst, ok := h.charts.Current(slot); ok {
			if png := inst.PNG(); png != nil {
				c.Header("Cache-Control", "no-store")
				c.Data(http.StatusOK, "image/png", png)
				return
			}
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "no chart drawn"})
}

// Export streams the XLSX workbook of the selected date.
func (h *ReportHandler) Export(c *gin.Context) {
	date := h.selectedDate(c)

	report, err := h.reporting.Compute(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	if report.NoData {
		c.JSON(http.StatusNotFound, gin.H{"error": reporting.NoticeNoData})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ecotrack-%s.xlsx"`, date))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, report); err != nil {
		if errors.Is(err, export.ErrNoData) {
			return
		}
		h.logger.Error("export failed", zap.Error(err), zap.String("request_id", requestID(c)))
	}
}

// selectedDate reads ?date=. Without the parameter the current day is used;
// an explicitly blank value stays blank.
func (h *ReportHandler) selectedDate(c *gin.Context) string {
	if date, ok := c.GetQuery("date"); ok {
		return strings.TrimSpace(date)
	}
	return h.reporting.Today(h.loc)
}

func (h *ReportHandler) version(slot charts.Slot) uint64 {
	if h.charts == nil {
		return 0
	}
	inst, ok := h.charts.Current(slot)
	if !ok {
		return 0
	}
	return inst.Seq
}

func (h *ReportHandler) fail(c *gin.Context, err error) {
	h.logger.Error("report failed", zap.Error(err), zap.String("request_id", requestID(c)))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load data"})
}
