package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/export"
	"github.com/mamadbah2/ecotrack/internal/repository/memory"
	"github.com/mamadbah2/ecotrack/internal/service/recorder"
	"github.com/mamadbah2/ecotrack/internal/service/reporting"
)

func memoryOpener(store *memory.Store, closed *int) opener {
	return func(context.Context) (*session, error) {
		return &session{
			recorder:  recorder.NewService(store, nil, nil),
			reporting: reporting.NewService(store, nil, nil),
			close: func() error {
				*closed++
				return nil
			},
		}, nil
	}
}

func run(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCityAndIndustryCommands(t *testing.T) {
	store := memory.NewStore()
	closed := 0
	open := memoryOpener(store, &closed)

	out, err := run(t, open, "city", "--date", "2024-01-01", "--city", "Springfield", "--weight", "150")
	require.NoError(t, err)
	assert.Equal(t, "Success: 150kg added to Springfield for 2024-01-01\n", out)

	out, err = run(t, open, "industry", "--date", "2024-01-01", "--weight", "75", "--res", "4")
	require.NoError(t, err)
	assert.Equal(t, "Industry Recovery Linked Successfully!\n", out)

	_, err = run(t, open, "city", "--date", "2024-01-01", "--weight", "abc")
	require.Error(t, err)
	assert.Equal(t, "Enter valid date and weight!", err.Error())

	assert.Equal(t, 3, closed)
	assert.Equal(t, 2, store.Saves())
}

func TestReportCommand(t *testing.T) {
	store := memory.NewStore()
	closed := 0
	open := memoryOpener(store, &closed)

	_, err := run(t, open, "city", "--date", "2024-01-01", "--city", "Springfield", "--weight", "150")
	require.NoError(t, err)
	_, err = run(t, open, "industry", "--date", "2024-01-01", "--weight", "75")
	require.NoError(t, err)

	out, err := run(t, open, "report", "--date", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Efficiency: 50.0%")

	out, err = run(t, open, "report", "--date", "2024-01-01", "--json")
	require.NoError(t, err)
	var report models.DailyReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 150.0, report.TotalGeneration)
}

func TestReportDefaultDateIsNotStoredInFlag(t *testing.T) {
	store := memory.NewStore()
	closed := 0
	cmd := newReportCmd(memoryOpener(store, &closed))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No data recorded for this date.")
	assert.Equal(t, "", cmd.Flags().Lookup("date").Value.String())

	out.Reset()
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "", cmd.Flags().Lookup("date").Value.String())
	assert.Equal(t, 2, closed)
}

func TestExportCommand(t *testing.T) {
	store := memory.NewStore()
	closed := 0
	open := memoryOpener(store, &closed)

	_, err := run(t, open, "city", "--date", "2024-01-01", "--city", "Springfield", "--weight", "150")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	out, err := run(t, open, "export", "--date", "2024-01-01", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Daily", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Springfield", v)

	_, err = run(t, open, "export", "--date", "2030-01-01", "-o", filepath.Join(t.TempDir(), "none.xlsx"))
	assert.ErrorIs(t, err, export.ErrNoData)

	_, err = run(t, open, "export")
	assert.Error(t, err)
}
