package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/config"
	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/repository/sheets"
	"github.com/mamadbah2/satisfaction/internal/service/reporting"
	"github.com/mamadbah2/satisfaction/pkg/clients/notifier"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	notifier     notifier.Client
	sheet        sheets.Repository
	cfg          config.Config
	now          func() time.Time
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. notifier and sheet may be nil.
func NewScheduler(cfg config.Config, loc *time.Location, reportingSvc *reporting.Service, notifierClient notifier.Client, sheet sheets.Repository, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		notifier:     notifierClient,
		sheet:        sheet,
		cfg:          cfg,
		now:          time.Now,
		logger:       logger,
	}
}

// Start registers the configured jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	jobs := []struct {
		name string
		spec string
		run  func(context.Context, time.Time) (models.PeriodReport, error)
	}{
		{"daily", s.cfg.Reporting.DailyCron, s.reportingSvc.DailySummary},
		{"weekly", s.cfg.Reporting.WeeklyCron, s.reportingSvc.WeeklySummary},
	}

	for _, job := range jobs {
		job := job // per-iteration copy for the closure below (pre-Go 1.22 loop semantics)
		if job.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, func() { s.runReport(job.name, job.run) }); err != nil {
			s.logger.Error("failed to schedule report", zap.String("report", job.name), zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runReport(name string, build func(context.Context, time.Time) (models.PeriodReport, error)) {
	s.logger.Info("generating report", zap.String("report", name))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := build(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to generate report", zap.String("report", name), zap.Error(err))
		return
	}

	text := s.reportingSvc.Format(report)
	s.logger.Info("report generated", zap.String("report", name), zap.String("summary", text))

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, notifier.Message{Text: text, Report: &report}); err != nil {
			s.logger.Error("failed to send report", zap.String("report", name), zap.Error(err))
		} else {
			s.logger.Info("report sent successfully", zap.String("report", name))
		}
	}

	if s.sheet != nil {
		row := [][]interface{}{reporting.SheetRow(report)}
		if err := s.sheet.AppendRows(ctx, s.cfg.Sheets.SummaryRange, row); err != nil {
			s.logger.Error("failed to append report row", zap.String("report", name), zap.Error(err))
		}
	}
}
