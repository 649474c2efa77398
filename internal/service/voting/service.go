// Package voting records kiosk submissions through the sequential id allocator.
package voting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/calendar"
	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/locale"
	"github.com/mamadbah2/satisfaction/internal/repository"
)

var (
	// ErrInvalidMood is returned for moods outside the three known choices.
	ErrInvalidMood = errors.New("invalid mood")
	// ErrCooldownActive is returned when a kiosk submits again too quickly.
	ErrCooldownActive = errors.New("kiosk cooldown active")
)

// Service turns a mood choice into a stored VoteRecord.
type Service struct {
	store    repository.VoteStore
	cooldown *Cooldown
	loc      *time.Location
	locale   locale.Locale
	now      func() time.Time
	logger   *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a voting service instance.
func NewService(store repository.VoteStore, cooldown *Cooldown, loc *time.Location, lc locale.Locale, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		store:    store,
		cooldown: cooldown,
		loc:      loc,
		locale:   lc,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records mood for kioskID and returns the stored record.
func (s *Service) Submit(ctx context.Context, kioskID, mood string) (models.VoteRecord, error) {
	parsed, err := models.ParseMood(mood)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("%w: %v", ErrInvalidMood, err)
	}

	now := s.now().In(s.loc)
	if !s.cooldown.Allow(kioskID, now) {
		return models.VoteRecord{}, ErrCooldownActive
	}

	record := NewRecord(parsed, now, s.locale)
	id, err := s.store.AllocateVote(ctx, record)
	if err != nil {
		s.cooldown.Release(kioskID)
		s.logger.Error("vote not recorded", zap.String("kiosk", kioskID), zap.String("mood", string(parsed)), zap.Error(err))
		return models.VoteRecord{}, fmt.Errorf("record vote: %w", err)
	}
	record.ID = id

	s.logger.Info("vote recorded",
		zap.Int64("id", id),
		zap.String("kiosk", kioskID),
		zap.String("mood", string(parsed)),
	)
	return record, nil
}

// NewRecord builds the record written for mood at now.
func NewRecord(mood models.Mood, now time.Time, lc locale.Locale) models.VoteRecord {
	return models.VoteRecord{
		Mood:    mood,
		Date:    calendar.FormatDate(now),
		Time:    calendar.FormatTime(now),
		Weekday: lc.Weekday(now),
	}
}
