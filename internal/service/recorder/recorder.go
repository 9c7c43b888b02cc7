package recorder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/repository"
)

const (
	msgInvalidCity  = "Enter valid date and weight!"
	msgMissingDate  = "Select date first!"
	msgIndustrySave = "Industry Recovery Linked Successfully!"

	// SummaryPath is where callers navigate after a successful entry.
	SummaryPath = "/"
)

// ValidationError is a user-facing rejection; nothing was stored.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Ledger mirrors accepted entries to an external audit trail.
type Ledger interface {
	AppendCity(ctx context.Context, date, city string, weight float64) error
	AppendIndustry(ctx context.Context, date string, delta models.Industry) error
}

// CityEntry is one city contribution as typed by the operator.
type CityEntry struct {
	Date   string
	City   string
	Weight string
}

// IndustryEntry is one industry recovery report as typed by the operator.
// Every numeric field is optional.
type IndustryEntry struct {
	Date   string
	Weight string
	Res    string
	Cap    string
	Iron   string
	Mag    string
	Cop    string
	Sil    string
}

// Outcome is reported back to the operator after a successful entry.
type Outcome struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// Service accumulates entries into the stored database.
type Service struct {
	store  repository.Store
	ledger Ledger
	logger *zap.Logger

	// serializes the load-modify-save cycle
	mu sync.Mutex
}

// NewService wires a recorder. ledger may be nil.
func NewService(store repository.Store, ledger Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, ledger: ledger, logger: logger}
}

// RecordCity adds a city's collected weight onto its running total for the date.
func (s *Service) RecordCity(ctx context.Context, entry CityEntry) (Outcome, error) {
	date := strings.TrimSpace(entry.Date)
	city := strings.TrimSpace(entry.City)
	weight := models.ParseRealOrZero(entry.Weight)

	if date == "" || weight <= 0 {
		return Outcome{}, &ValidationError{Message: msgInvalidCity}
	}

	err := s.mutate(ctx, func(db models.Database) {
		db.Ensure(date).Cities.Add(city, weight)
	})
	if err != nil {
		return Outcome{}, err
	}

	s.logger.Info("city contribution recorded", zap.String("date", date), zap.String("city", city), zap.Float64("weight", weight))

	if s.ledger != nil {
		if err := s.ledger.AppendCity(ctx, date, city, weight); err != nil {
			s.logger.Warn("ledger append failed", zap.String("kind", "city"), zap.Error(err))
		}
	}

	return Outcome{
		Message:  fmt.Sprintf("Success: %skg added to %s for %s", formatAmount(weight), city, date),
		Redirect: SummaryPath,
	}, nil
}

// RecordIndustry adds every submitted recovery amount onto the date's accumulators.
func (s *Service) RecordIndustry(ctx context.Context, entry IndustryEntry) (Outcome, error) {
	date := strings.TrimSpace(entry.Date)
	if date == "" {
		return Outcome{}, &ValidationError{Message: msgMissingDate}
	}

	delta := models.Industry{
		Weight: models.ParseRealOrZero(entry.Weight),
		Res:    models.ParseIntOrZero(entry.Res),
		Cap:    models.ParseIntOrZero(entry.Cap),
		Iron:   models.ParseIntOrZero(entry.Iron),
		Mag:    models.ParseIntOrZero(entry.Mag),
		Cop:    models.ParseRealOrZero(entry.Cop),
		Sil:    models.ParseRealOrZero(entry.Sil),
	}

	err := s.mutate(ctx, func(db models.Database) {
		db.Ensure(date).Industry.Add(delta)
	})
	if err != nil {
		return Outcome{}, err
	}

	s.logger.Info("industry recovery recorded", zap.String("date", date), zap.Any("delta", delta))

	if s.ledger != nil {
		if err := s.ledger.AppendIndustry(ctx, date, delta); err != nil {
			s.logger.Warn("ledger append failed", zap.String("kind", "industry"), zap.Error(err))
		}
	}

	return Outcome{Message: msgIndustrySave, Redirect: SummaryPath}, nil
}

func (s *Service) mutate(ctx context.Context, apply func(models.Database)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load database: %w", err)
	}

	apply(db)

	if err := s.store.Save(ctx, db); err != nil {
		return fmt.Errorf("save database: %w", err)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
