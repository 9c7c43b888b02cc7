package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ecotrack/internal/charts"
	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/repository/memory"
	"github.com/mamadbah2/ecotrack/internal/service/recorder"
)

type fakeBoard struct {
	trends      []models.TrendSeries
	comparisons [][]models.ComparisonPoint
	clears      int
}

func (b *fakeBoard) DrawTrend(series models.TrendSeries) (*charts.Instance, error) {
	b.trends = append(b.trends, series)
	return &charts.Instance{Slot: charts.SlotTrend}, nil
}

func (b *fakeBoard) DrawComparison(points []models.ComparisonPoint) (*charts.Instance, error) {
	b.comparisons = append(b.comparisons, points)
	return &charts.Instance{Slot: charts.SlotComparison}, nil
}

func (b *fakeBoard) Clear() { b.clears++ }

func seed(t *testing.T, store *memory.Store, cities map[string][]string, industry []recorder.IndustryEntry) {
	t.Helper()
	rec := recorder.NewService(store, nil, nil)
	for date, entries := range cities {
		for i := 0; i+1 < len(entries); i += 2 {
			_, err := rec.RecordCity(context.Background(), recorder.CityEntry{Date: date, City: entries[i], Weight: entries[i+1]})
			require.NoError(t, err)
		}
	}
	for _, e := range industry {
		_, err := rec.RecordIndustry(context.Background(), e)
		require.NoError(t, err)
	}
}

func TestDailySpringfieldScenario(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, map[string][]string{"2024-01-01": {"Springfield", "150"}}, nil)
	svc := NewService(store, nil, nil)

	report, err := svc.Daily(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.False(t, report.NoData)
	assert.Equal(t, 150.0, report.TotalGeneration)
	assert.Equal(t, 0.0, report.Efficiency)
	assert.Equal(t, "0.0", report.EfficiencyLabel)

	seed(t, store, nil, []recorder.IndustryEntry{{Date: "2024-01-01", Weight: "75", Res: "4", Cap: "2", Cop: "1.5"}})

	report, err = svc.Daily(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 150.0, report.TotalGeneration)
	assert.Equal(t, 75.0, report.TotalRecycled)
	assert.Equal(t, 50.0, report.Efficiency)
	assert.Equal(t, "50.0", report.EfficiencyLabel)
	assert.Equal(t, int64(4), report.Resistors)
	assert.Equal(t, int64(2), report.Capacitors)
	assert.Equal(t, 1.5, report.Copper)
	assert.Equal(t, []models.CityRow{{City: "Springfield", Weight: 150}}, report.Rows)
}

func TestDailyNoData(t *testing.T) {
	svc := NewService(memory.NewStore(), nil, nil)

	for _, date := range []string{"", "  ", "2030-01-01"} {
		report, err := svc.Daily(context.Background(), date)
		require.NoError(t, err)
		assert.True(t, report.NoData)
		assert.Equal(t, "No data recorded for this date.", report.Notice)
		assert.Empty(t, report.Rows)
	}
}

func TestDailyRowsFollowInsertionOrder(t *testing.T) {
	store := memory.NewStoreWithBlob([]byte(`{"2024-01-01":{"cities":{"Zeta":5,"Alpha":10,"Mid":1},"industry":{"weight":0}}}`))
	svc := NewService(store, nil, nil)

	report, err := svc.Daily(context.Background(), "2024-01-01")
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, []string{report.Rows[0].City, report.Rows[1].City, report.Rows[2].City})
	assert.Equal(t, 16.0, report.TotalGeneration)
}

func TestEfficiency(t *testing.T) {
	tests := []struct {
		name      string
		recycled  float64
		collected float64
		want      float64
		label     string
	}{
		{name: "half", recycled: 75, collected: 150, want: 50, label: "50.0"},
		{name: "zero collected", recycled: 40, collected: 0, want: 0, label: "0"},
		{name: "rounds to one decimal", recycled: 1, collected: 3, want: 33.3, label: "33.3"},
		{name: "rounds up", recycled: 2, collected: 3, want: 66.7, label: "66.7"},
		{name: "above hundred", recycled: 300, collected: 120, want: 250, label: "250.0"},
		{name: "rounds the float ratio", recycled: 2.675, collected: 10, want: 26.7, label: "26.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, label := Efficiency(tt.recycled, tt.collected)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, models.TierCritical, TierFor(250))
	assert.Equal(t, models.TierCritical, TierFor(200.01))
	assert.Equal(t, models.TierWarning, TierFor(200))
	assert.Equal(t, models.TierWarning, TierFor(120))
	assert.Equal(t, models.TierNormal, TierFor(100))
	assert.Equal(t, models.TierNormal, TierFor(50))
}

func TestAnalyticsMarkersAndBreakdown(t *testing.T) {
	store := memory.NewStore()
	seed(t, store,
		map[string][]string{"2024-01-01": {"Springfield", "250", "Shelbyville", "120", "Ogdenville", "50"}},
		[]recorder.IndustryEntry{{Date: "2024-01-01", Weight: "42", Res: "1", Cap: "2", Iron: "3", Mag: "4", Cop: "5.5", Sil: "0.5"}},
	)
	board := &fakeBoard{}
	svc := NewService(store, board, nil)

	report, err := svc.Analytics(context.Background(), "2024-01-01")
	require.NoError(t, err)

	require.Len(t, report.Markers, 3)
	assert.Equal(t, models.CityMarker{City: "Springfield", Weight: 250, Tier: models.TierCritical, Color: "#d63031"}, report.Markers[0])
	assert.Equal(t, models.CityMarker{City: "Shelbyville", Weight: 120, Tier: models.TierWarning, Color: "#e67e22"}, report.Markers[1])
	assert.Equal(t, models.CityMarker{City: "Ogdenville", Weight: 50, Tier: models.TierNormal, Color: "#00b894"}, report.Markers[2])

	assert.Equal(t, 420.0, report.TotalCollected)
	assert.Equal(t, 10.0, report.Efficiency)
	assert.Equal(t, models.IndustryBreakdown{Resistors: 1, Capacitors: 2, Magnets: 4, Iron: 3, Copper: 5.5, Silver: 0.5}, report.Industry)

	require.Len(t, board.trends, 1)
	require.Len(t, board.comparisons, 1)
	assert.Zero(t, board.clears)
}

func TestAnalyticsNoDataClearsCharts(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, map[string][]string{"2024-01-01": {"Springfield", "100", "Shelbyville", "300"}}, nil)
	board := charts.NewBoard(nil)
	svc := NewService(store, board, nil)

	_, err := svc.Analytics(context.Background(), "2024-01-01")
	require.NoError(t, err)
	require.Equal(t, 2, board.Live())
	trend, _ := board.Current(charts.SlotTrend)

	_, err = svc.Analytics(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 2, board.Live())
	assert.True(t, trend.Destroyed())

	report, err := svc.Analytics(context.Background(), "2024-06-30")
	require.NoError(t, err)
	assert.True(t, report.NoData)
	assert.Equal(t, "No data recorded for this date.", report.Notice)
	assert.Equal(t, "Select a valid date to view data.", report.MapNotice)
	assert.Empty(t, report.Rows)
	assert.Empty(t, report.Markers)
	assert.Nil(t, report.Trend)
	assert.Equal(t, 0, board.Live())
}

func TestAnalyticsNoDataWithoutPriorCharts(t *testing.T) {
	board := &fakeBoard{}
	svc := NewService(memory.NewStore(), board, nil)

	report, err := svc.Analytics(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, report.NoData)
	assert.Equal(t, 1, board.clears)
	assert.Empty(t, board.trends)
}

func TestToday(t *testing.T) {
	svc := NewService(memory.NewStore(), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC) }

	loc := time.FixedZone("UTC+2", 2*60*60)
	assert.Equal(t, "2024-01-02", svc.Today(loc))
	assert.Equal(t, "2024-01-01", svc.Today(nil))
}
