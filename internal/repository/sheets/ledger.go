package sheets

import (
	"context"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

const (
	citiesWriteRange   = "Cities!A:C"
	industryWriteRange = "Industry!A:H"
)

// Ledger mirrors every accepted entry as an appended spreadsheet row. The
// rows are an audit trail; the stored database stays the source of truth.
type Ledger struct {
	repo Repository
}

// NewLedger wraps a sheet repository.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// AppendCity writes date, city and the weight that was added.
func (l *Ledger) AppendCity(ctx context.Context, date, city string, weight float64) error {
	return l.repo.WriteRow(ctx, citiesWriteRange, []interface{}{date, city, weight})
}

// AppendIndustry writes date followed by the seven submitted amounts.
func (l *Ledger) AppendIndustry(ctx context.Context, date string, delta models.Industry) error {
	values := []interface{}{date, delta.Weight, delta.Res, delta.Cap, delta.Iron, delta.Mag, delta.Cop, delta.Sil}
	return l.repo.WriteRow(ctx, industryWriteRange, values)
}
