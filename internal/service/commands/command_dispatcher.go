package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/service/recorder"
	"github.com/mamadbah2/ecotrack/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// Recorder is the subset of the entry recorder the dispatcher drives.
type Recorder interface {
	RecordCity(ctx context.Context, entry recorder.CityEntry) (recorder.Outcome, error)
	RecordIndustry(ctx context.Context, entry recorder.IndustryEntry) (recorder.Outcome, error)
}

// Reporter builds the daily sheet for /report.
type Reporter interface {
	Daily(ctx context.Context, date string) (models.DailyReport, error)
}

// Dispatcher executes parsed chat commands.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	recorder  Recorder
	reporting Reporter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(rec Recorder, reporting Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		recorder:  rec,
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand runs cmd and returns the reply text. Validation rejections
// from the recorder are returned as errors so the caller can relay them.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandCity:
		entry, err := buildCityEntry(cmd)
		if err != nil {
			return "", err
		}
		out, err := s.recorder.RecordCity(ctx, entry)
		if err != nil {
			return "", err
		}
		return out.Message, nil
	case models.CommandIndustry:
		entry, err := buildIndustryEntry(cmd)
		if err != nil {
			return "", err
		}
		out, err := s.recorder.RecordIndustry(ctx, entry)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (%s)", out.Message, entry.Date), nil
	case models.CommandReport:
		if len(cmd.Args) != 1 {
			return "", ErrInvalidArguments
		}
		if s.reporting == nil {
			return "", ErrUnsupportedCommand
		}
		report, err := s.reporting.Daily(ctx, cmd.Args[0])
		if err != nil {
			return "", err
		}
		return reporting.Digest(report), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

// buildCityEntry reads "/city <date> <weight> <city name...>". The weight is
// forwarded as typed so the recorder applies the usual parsing rules.
func buildCityEntry(cmd models.Command) (recorder.CityEntry, error) {
	if len(cmd.Args) < 2 {
		return recorder.CityEntry{}, ErrInvalidArguments
	}

	entry := recorder.CityEntry{Date: cmd.Args[0], Weight: cmd.Args[1]}
	if len(cmd.Args) > 2 {
		entry.City = strings.Join(cmd.Args[2:], " ")
	}
	return entry, nil
}

// buildIndustryEntry reads "/industry <date> key=value...".
func buildIndustryEntry(cmd models.Command) (recorder.IndustryEntry, error) {
	if len(cmd.Args) == 0 {
		return recorder.IndustryEntry{}, ErrInvalidArguments
	}

	entry := recorder.IndustryEntry{Date: cmd.Args[0]}
	for _, arg := range cmd.Args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return recorder.IndustryEntry{}, ErrInvalidArguments
		}
		switch strings.ToLower(key) {
		case "weight":
			entry.Weight = value
		case "res":
			entry.Res = value
		case "cap":
			entry.Cap = value
		case "iron":
			entry.Iron = value
		case "mag":
			entry.Mag = value
		case "cop":
			entry.Cop = value
		case "sil":
			entry.Sil = value
		default:
			return recorder.IndustryEntry{}, ErrInvalidArguments
		}
	}
	return entry, nil
}
