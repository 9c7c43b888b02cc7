package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

type recordingRepo struct {
	ranges []string
	rows   [][]interface{}
}

func (r *recordingRepo) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	r.ranges = append(r.ranges, sheetRange)
	r.rows = append(r.rows, values)
	return nil
}

func TestLedgerRows(t *testing.T) {
	repo := &recordingRepo{}
	ledger := NewLedger(repo)

	require.NoError(t, ledger.AppendCity(context.Background(), "2024-01-01", "Springfield", 150))
	require.NoError(t, ledger.AppendIndustry(context.Background(), "2024-01-01", models.Industry{Weight: 75, Res: 3, Sil: 0.5}))

	assert.Equal(t, []string{"Cities!A:C", "Industry!A:H"}, repo.ranges)
	assert.Equal(t, []interface{}{"2024-01-01", "Springfield", 150.0}, repo.rows[0])
	assert.Equal(t, []interface{}{"2024-01-01", 75.0, int64(3), int64(0), int64(0), int64(0), 0.0, 0.5}, repo.rows[1])
}
