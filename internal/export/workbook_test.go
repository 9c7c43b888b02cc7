package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

func sampleReport() models.AnalyticsReport {
	return models.AnalyticsReport{
		Date:            "2024-01-01",
		Rows:            []models.CityRow{{City: "Springfield", Weight: 150}, {City: "Ogdenville", Weight: 25.5}},
		TotalCollected:  175.5,
		TotalRecycled:   75,
		Efficiency:      42.7,
		EfficiencyLabel: "42.7",
		Industry:        models.IndustryBreakdown{Resistors: 4, Capacitors: 2, Copper: 1.5},
		Trend: &models.TrendSeries{
			TrendDates: []string{"2023-12-31", "2024-01-01"},
			Trend:      []float64{10, 75},
		},
	}
}

func TestBuildLaysOutBothSheets(t *testing.T) {
	f, err := Build(sampleReport())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Daily", "Trend"}, f.GetSheetList())

	date, err := f.GetCellValue("Daily", "B1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", date)

	rows, err := f.GetRows("Daily")
	require.NoError(t, err)
	assert.Equal(t, []string{"Springfield", "150"}, rows[3])
	assert.Equal(t, []string{"Ogdenville", "25.5"}, rows[4])

	eff, err := f.GetCellValue("Daily", "B9")
	require.NoError(t, err)
	assert.Equal(t, "42.7", eff)

	trend, err := f.GetRows("Trend")
	require.NoError(t, err)
	require.Len(t, trend, 3)
	assert.Equal(t, []string{"2024-01-01", "75"}, trend[2])
}

func TestBuildRejectsNoData(t *testing.T) {
	_, err := Build(models.AnalyticsReport{Date: "2024-01-01", NoData: true})
	assert.ErrorIs(t, err, ErrNoData)

	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, models.AnalyticsReport{NoData: true}), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestWriteAndSaveProduceReadableWorkbooks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Daily", "Trend"}, f.GetSheetList())

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Save(path, sampleReport()))

	saved, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer saved.Close()
	v, err := saved.GetCellValue("Trend", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", v)
}
