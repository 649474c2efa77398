package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/calendar"
	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/locale"
	"github.com/mamadbah2/satisfaction/internal/repository"
	"github.com/mamadbah2/satisfaction/internal/service/aggregation"
	"github.com/mamadbah2/satisfaction/internal/service/period"
)

// Session is the dashboard state of one signed-in admin. All methods are
// safe for concurrent use and run one at a time.
type Session struct {
	id     string
	loc    *time.Location
	lc     locale.Locale
	now    func() time.Time
	logger *zap.Logger

	mu       sync.Mutex
	cache    []models.VoteRecord
	loaded   bool
	loadErr  error
	filter   period.Filter
	label    string
	filtered []models.VoteRecord
	page     int
	slots    *ChartSlots
}

// NewSession creates an empty session.
func NewSession(id string, loc *time.Location, lc locale.Locale, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	s := &Session{
		id:     id,
		loc:    loc,
		lc:     lc,
		now:    time.Now,
		logger: logger,
		label:  lc.AllRecords,
	}
	s.slots = NewChartSlots(func(slot Slot, chart *models.Chart) {
		s.logger.Debug("chart released", zap.String("slot", string(slot)), zap.Int("revision", chart.Revision))
	})
	return s
}

// ID returns the auth session id this state belongs to.
func (s *Session) ID() string { return s.id }

// Load fetches every record and replaces the cache, returning to the first
// page. On failure the previous cache is kept. Other session actions wait
// until the fetch finishes.
func (s *Session) Load(ctx context.Context, store repository.VoteStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := store.ListVotes(ctx)
	if err != nil {
		s.loadErr = fmt.Errorf("load votes: %w", err)
		s.logger.Error("dashboard load failed", zap.String("session", s.id), zap.Error(err))
		return s.loadErr
	}

	s.cache = SortNewestFirst(records, s.loc)
	s.loaded = true
	s.loadErr = nil
	s.refilter()
	s.logger.Info("dashboard loaded", zap.String("session", s.id), zap.Int("records", len(s.cache)))
	return nil
}

// LoadError returns the error of the last load, or nil if it succeeded.
func (s *Session) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Loaded reports whether at least one load succeeded.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// View renders the whole dashboard from the cache.
func (s *Session) View() models.DashboardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.loc)
	return models.DashboardView{
		FilterView: s.render(),
		Periods: models.PeriodPanels{
			Day:   s.panel(period.Filter{Mode: period.ModeDay}, now),
			Week:  s.panel(period.Filter{Mode: period.ModeWeek}, now),
			Month: s.panel(period.Filter{Mode: period.ModeMonth}, now),
		},
		Loaded:  s.loaded,
		Records: len(s.cache),
	}
}

// ApplyFilter recomputes the filtered set from the cache and returns to the
// first page. An invalid filter leaves the state untouched.
func (s *Session) ApplyFilter(filter period.Filter) (models.FilterView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subset, label, err := filter.Apply(s.cache, s.now(), s.loc, s.lc)
	if err != nil {
		return models.FilterView{}, err
	}

	s.filter = filter
	s.label = label
	s.filtered = subset
	s.page = 0
	return s.render(), nil
}

// Compare summarizes two YYYY-MM-DD days side by side.
func (s *Session) Compare(first, second string) (models.Comparison, error) {
	firstDay, err := calendar.InputToStored(first)
	if err != nil {
		return models.Comparison{}, fmt.Errorf("%w: first day: %v", period.ErrInvalidFilter, err)
	}
	secondDay, err := calendar.InputToStored(second)
	if err != nil {
		return models.Comparison{}, fmt.Errorf("%w: second day: %v", period.ErrInvalidFilter, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := aggregation.Summarize(fmt.Sprintf("%s %s", s.lc.CustomDay, firstDay), period.SelectDay(s.cache, firstDay), s.lc)
	b := aggregation.Summarize(fmt.Sprintf("%s %s", s.lc.CustomDay, secondDay), period.SelectDay(s.cache, secondDay), s.lc)
	return models.Comparison{
		First:  a,
		Second: b,
		Chart:  s.slots.Replace(SlotCompare, CompareChart(a, b, s.lc)),
	}, nil
}

// Page returns the current history page.
func (s *Session) Page() models.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Paginate(s.filtered, s.page, PageSize)
}

// NextPage moves forward one page unless already on the last.
func (s *Session) NextPage() models.Page {
	return s.move(func(index int) int { return index + 1 })
}

// PrevPage moves back one page unless already on the first.
func (s *Session) PrevPage() models.Page {
	return s.move(func(index int) int { return index - 1 })
}

// GoToPage jumps to the zero-based page index, clamped into range.
func (s *Session) GoToPage(index int) models.Page {
	return s.move(func(int) int { return index })
}

// Filtered returns a copy of the current filtered set.
func (s *Session) Filtered() []models.VoteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.VoteRecord(nil), s.filtered...)
}

// FilterLabel returns the label of the active filter.
func (s *Session) FilterLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// Clear empties the cache after the store was reset.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil
	s.filtered = nil
	s.page = 0
}

// Close releases the session's charts.
func (s *Session) Close() {
	s.slots.ReleaseAll()
}

func (s *Session) move(step func(int) int) models.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := PageCount(len(s.filtered), PageSize)
	s.page = clamp(step(s.page), count)
	return Paginate(s.filtered, s.page, PageSize)
}

// refilter reapplies the active filter after the cache changed and returns to
// the first page; caller holds the lock.
func (s *Session) refilter() {
	subset, label, err := s.filter.Apply(s.cache, s.now(), s.loc, s.lc)
	if err != nil {
		s.logger.Warn("active filter no longer applies, showing all records", zap.Error(err))
		s.filter = period.Filter{Mode: period.ModeAll}
		subset, label = append([]models.VoteRecord(nil), s.cache...), s.lc.AllRecords
	}
	s.filtered = subset
	s.label = label
	s.page = 0
}

// render builds the filter view and installs its charts; caller holds the lock.
func (s *Session) render() models.FilterView {
	counts := aggregation.CountByMood(s.filtered)
	return models.FilterView{
		Summary:   aggregation.Summarize(s.label, s.filtered, s.lc),
		Bar:       s.slots.Replace(SlotBar, BarChart(s.label, counts, s.lc)),
		Pie:       s.slots.Replace(SlotPie, PieChart(counts, s.lc)),
		Evolution: s.slots.Replace(SlotEvolution, EvolutionChart(aggregation.MonthlyEvolution(s.filtered), s.lc)),
		Page:      Paginate(s.filtered, s.page, PageSize),
	}
}

func (s *Session) panel(filter period.Filter, now time.Time) models.Summary {
	subset, label, err := filter.Apply(s.cache, now, s.loc, s.lc)
	if err != nil {
		return aggregation.Summarize(label, nil, s.lc)
	}
	return aggregation.Summarize(label, subset, s.lc)
}

// SortNewestFirst returns records ordered by date and time, newest first.
// Records whose instant cannot be parsed keep their relative order at the end.
func SortNewestFirst(records []models.VoteRecord, loc *time.Location) []models.VoteRecord {
	type keyed struct {
		record models.VoteRecord
		at     time.Time
		ok     bool
	}

	items := make([]keyed, 0, len(records))
	for _, record := range records {
		at, err := calendar.ParseInstant(record.Date, record.Time, loc)
		items = append(items, keyed{record: record, at: at, ok: err == nil})
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return b.at.Compare(a.at)
	})

	sorted := make([]models.VoteRecord, 0, len(items))
	for _, item := range items {
		sorted = append(sorted, item.record)
	}
	return sorted
}
