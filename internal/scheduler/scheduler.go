package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/repository/mongodb"
	"github.com/mamadbah2/ecotrack/internal/service/reporting"
	"github.com/mamadbah2/ecotrack/internal/service/whatsapp"
)

const jobTimeout = 2 * time.Minute

// DailyReporter builds the daily sheet the digest is made from.
type DailyReporter interface {
	Daily(ctx context.Context, date string) (models.DailyReport, error)
	Today(loc *time.Location) string
}

// Options configures the daily digest job.
type Options struct {
	Schedule  string
	Location  *time.Location
	ManagerID string
}

// Scheduler runs the daily digest on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	opts      Options
	reporter  DailyReporter
	archive   mongodb.Archive
	messaging whatsapp.MessagingService
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. archive and messaging may be
// nil when MongoDB or WhatsApp are not configured.
func NewScheduler(opts Options, reporter DailyReporter, archive mongodb.Archive, messaging whatsapp.MessagingService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(opts.Location)),
		opts:      opts,
		reporter:  reporter,
		archive:   archive,
		messaging: messaging,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.opts.Schedule, s.runDailyDigest); err != nil {
		return fmt.Errorf("schedule daily digest %q: %w", s.opts.Schedule, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.opts.Schedule),
		zap.String("timezone", s.opts.Location.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.SendDailyDigest(ctx, s.reporter.Today(s.opts.Location)); err != nil {
		s.logger.Error("daily digest failed", zap.Error(err))
	}
}

// SendDailyDigest archives the sheet of date when it has data and sends the
// digest to the manager. Archive and delivery failures are both reported.
func (s *Scheduler) SendDailyDigest(ctx context.Context, date string) error {
	s.logger.Info("generating daily digest", zap.String("date", date))

	report, err := s.reporter.Daily(ctx, date)
	if err != nil {
		return fmt.Errorf("build daily report: %w", err)
	}

	var archiveErr error
	if s.archive != nil && !report.NoData {
		if err := s.archive.SaveDailySnapshot(ctx, reporting.Snapshot(report, s.now())); err != nil {
			archiveErr = fmt.Errorf("archive daily report: %w", err)
			s.logger.Error("failed to archive daily report", zap.Error(err))
		}
	}

	if s.messaging == nil || s.opts.ManagerID == "" {
		s.logger.Debug("digest delivery disabled")
		return archiveErr
	}

	req := models.OutboundMessageRequest{
		To:      s.opts.ManagerID,
		Message: reporting.Digest(report),
	}
	if err := s.messaging.SendOutbound(ctx, req); err != nil {
		return fmt.Errorf("send daily digest: %w", err)
	}

	s.logger.Info("daily digest sent", zap.String("date", date), zap.Bool("no_data", report.NoData))
	return archiveErr
}
