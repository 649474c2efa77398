package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/calendar"
	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/locale"
	"github.com/mamadbah2/satisfaction/internal/repository"
	"github.com/mamadbah2/satisfaction/internal/service/aggregation"
	"github.com/mamadbah2/satisfaction/internal/service/period"
)

// Service builds the periodic satisfaction summaries.
type Service struct {
	store  repository.VoteStore
	loc    *time.Location
	lc     locale.Locale
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(store repository.VoteStore, loc *time.Location, lc locale.Locale, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, loc: loc, lc: lc, logger: logger}
}

// DailySummary aggregates the votes stored on the day of now.
func (s *Service) DailySummary(ctx context.Context, now time.Time) (models.PeriodReport, error) {
	now = now.In(s.loc)
	return s.summarize(ctx, period.Filter{Mode: period.ModeDay}, now, now, now)
}

// WeeklySummary aggregates the seven days ending on now.
func (s *Service) WeeklySummary(ctx context.Context, now time.Time) (models.PeriodReport, error) {
	now = now.In(s.loc)
	return s.summarize(ctx, period.Filter{Mode: period.ModeWeek}, now, now.AddDate(0, 0, -6), now)
}

func (s *Service) summarize(ctx context.Context, filter period.Filter, now, start, end time.Time) (models.PeriodReport, error) {
	records, err := s.store.ListVotes(ctx)
	if err != nil {
		return models.PeriodReport{}, fmt.Errorf("load votes: %w", err)
	}

	subset, label, err := filter.Apply(records, now, s.loc, s.lc)
	if err != nil {
		return models.PeriodReport{}, fmt.Errorf("select period: %w", err)
	}

	s.logger.Debug("period summarized", zap.String("label", label), zap.Int("records", len(subset)))
	return models.PeriodReport{
		Label:       label,
		Start:       calendar.FormatDate(start),
		End:         calendar.FormatDate(end),
		Summary:     aggregation.Summarize(label, subset, s.lc),
		GeneratedAt: now,
	}, nil
}

// Format renders report as a single message line.
func (s *Service) Format(report models.PeriodReport) string {
	span := report.Start
	if report.End != report.Start {
		span = fmt.Sprintf("%s - %s", report.Start, report.End)
	}

	if report.Summary.Total == 0 {
		return fmt.Sprintf("%s (%s): 0", report.Label, span)
	}

	parts := make([]string, 0, len(report.Summary.Moods))
	for _, stat := range report.Summary.Moods {
		parts = append(parts, fmt.Sprintf("%s %d (%s%%)", stat.Label, stat.Count, stat.Percentage))
	}
	return fmt.Sprintf("%s (%s): %s %d. %s", report.Label, span, s.lc.Total, report.Summary.Total, strings.Join(parts, ", "))
}

// SheetRow flattens report for the summary sheet.
func SheetRow(report models.PeriodReport) []interface{} {
	row := []interface{}{
		report.GeneratedAt.Format(time.RFC3339),
		report.Label,
		report.Start,
		report.End,
		report.Summary.Total,
		report.Summary.Rated,
	}
	for _, stat := range report.Summary.Moods {
		row = append(row, stat.Count)
	}
	return row
}
