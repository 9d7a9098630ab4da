package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/handlers/reports"
	"guesthouse/internal/infra/security"
)

var ErrNoCommandBus = errors.New("schedule: command bus is required")

// Scheduler publishes the year workbook on a cron spec. Each run covers the
// year of the month that just ended, so a January run still closes out the
// previous year.
type Scheduler struct {
	cron    *cron.Cron
	bus     commands.Bus
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func New(spec string, bus commands.Bus, loc *time.Location, logger *slog.Logger) (*Scheduler, error) {
	if bus == nil {
		return nil, ErrNoCommandBus
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		bus:     bus,
		logger:  logger,
		timeout: 2 * time.Minute,
		now:     func() time.Time { return time.Now().In(loc) },
	}
	if _, err := s.cron.AddFunc(spec, s.publish); err != nil {
		return nil, fmt.Errorf("schedule: parse %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("report scheduler started", "next", s.Next())
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.logger.Info("report scheduler stopped")
}

func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(s.now())
}

func (s *Scheduler) publish() {
	ctx, cancel := context.WithTimeout(security.WithTrusted(context.Background()), s.timeout)
	defer cancel()
	if _, err := s.Run(ctx); err != nil {
		s.logger.Error("scheduled report failed", "err", err)
	}
}

// Run publishes the report for ReportYear(now) immediately.
func (s *Scheduler) Run(ctx context.Context) (*reports.Published, error) {
	year := ReportYear(s.now())
	res, err := commands.Dispatch[reports.PublishReportCommand, *reports.Published](ctx, s.bus, reports.PublishReportCommand{Year: year})
	if err != nil {
		return nil, fmt.Errorf("schedule: publish %d: %w", year, err)
	}
	if res != nil {
		s.logger.InfoContext(ctx, "scheduled report published", "year", year, "url", res.URL, "size", res.Size)
	}
	return res, nil
}

// ReportYear is the year of the month preceding now.
func ReportYear(now time.Time) int {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0).Year()
}
