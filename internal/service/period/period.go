// Package period selects the vote records that fall inside a named time window.
// Every selector is pure: it returns a new slice and never touches its input.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/satisfaction/internal/calendar"
	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/locale"
)

// ErrInvalidFilter indicates the filter payload could not be interpreted.
var ErrInvalidFilter = errors.New("invalid filter")

// Mode enumerates the filter kinds offered by the dashboard.
type Mode string

const (
	ModeAll    Mode = "all"
	ModeDay    Mode = "day"
	ModeWeek   Mode = "week"
	ModeMonth  Mode = "month"
	ModeCustom Mode = "custom"
	ModeQuick  Mode = "quick"
)

// Quick enumerates the one-click filters.
type Quick string

const (
	QuickToday Quick = "today"
	QuickLast7 Quick = "last7"
	QuickMonth Quick = "month"
)

const monthInputLayout = "2006-01"

// Filter describes a period selection as submitted by the dashboard.
type Filter struct {
	Mode  Mode   `json:"mode"`
	Date  string `json:"date,omitempty"`  // custom: YYYY-MM-DD
	Start string `json:"start,omitempty"` // week: YYYY-MM-DD
	End   string `json:"end,omitempty"`   // week: YYYY-MM-DD
	Month string `json:"month,omitempty"` // month: YYYY-MM
	Quick Quick  `json:"quick,omitempty"`
}

// SelectDay keeps records whose stored date equals today exactly.
func SelectDay(records []models.VoteRecord, today string) []models.VoteRecord {
	return selectWhere(records, func(r models.VoteRecord) bool {
		return r.Date == today
	})
}

// SelectRollingWindow keeps records dated within the days ending at end, inclusive.
func SelectRollingWindow(records []models.VoteRecord, end time.Time, days int) []models.VoteRecord {
	if days < 1 {
		days = 1
	}
	end = calendar.StartOfDay(end)
	start := end.AddDate(0, 0, -(days - 1))
	return SelectRange(records, start, end)
}

// SelectRange keeps records dated between start and end inclusive. The bounds
// are swapped when start is after end. Dates are parsed in start's location.
func SelectRange(records []models.VoteRecord, start, end time.Time) []models.VoteRecord {
	start = calendar.StartOfDay(start)
	end = calendar.StartOfDay(end.In(start.Location()))
	if start.After(end) {
		start, end = end, start
	}

	loc := start.Location()
	return selectWhere(records, func(r models.VoteRecord) bool {
		date, err := calendar.ParseDate(r.Date, loc)
		if err != nil {
			return false
		}
		return !date.Before(start) && !date.After(end)
	})
}

// SelectMonth keeps records whose parsed month and year match.
func SelectMonth(records []models.VoteRecord, month time.Month, year int) []models.VoteRecord {
	return selectWhere(records, func(r models.VoteRecord) bool {
		_, m, y, err := calendar.DateParts(r.Date)
		if err != nil {
			return false
		}
		return time.Month(m) == month && y == year
	})
}

// SelectCustomDate keeps records stored on the given YYYY-MM-DD day.
func SelectCustomDate(records []models.VoteRecord, input string) ([]models.VoteRecord, error) {
	stored, err := calendar.InputToStored(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return SelectDay(records, stored), nil
}

// Apply runs the filter against records relative to now and returns the
// subset together with its display label.
func (f Filter) Apply(records []models.VoteRecord, now time.Time, loc *time.Location, lc locale.Locale) ([]models.VoteRecord, string, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	switch f.Mode {
	case "", ModeAll:
		return selectWhere(records, nil), lc.AllRecords, nil
	case ModeDay:
		return SelectDay(records, calendar.FormatDate(now)), lc.Today, nil
	case ModeWeek:
		if f.Start == "" && f.End == "" {
			return SelectRollingWindow(records, now, 7), lc.Last7Days, nil
		}
		start, err := calendar.ParseInput(f.Start, loc)
		if err != nil {
			return nil, "", fmt.Errorf("%w: week start: %v", ErrInvalidFilter, err)
		}
		end, err := calendar.ParseInput(f.End, loc)
		if err != nil {
			return nil, "", fmt.Errorf("%w: week end: %v", ErrInvalidFilter, err)
		}
		if start.After(end) {
			start, end = end, start
		}
		label := fmt.Sprintf("%s %s - %s", lc.DateRange, calendar.FormatDate(start), calendar.FormatDate(end))
		return SelectRange(records, start, end), label, nil
	case ModeMonth:
		if strings.TrimSpace(f.Month) == "" {
			return SelectMonth(records, now.Month(), now.Year()), lc.ThisMonth, nil
		}
		picked, err := time.ParseInLocation(monthInputLayout, strings.TrimSpace(f.Month), loc)
		if err != nil {
			return nil, "", fmt.Errorf("%w: month: %v", ErrInvalidFilter, err)
		}
		label := fmt.Sprintf("%s %d", lc.Months[picked.Month()-1], picked.Year())
		if picked.Month() == now.Month() && picked.Year() == now.Year() {
			label = lc.ThisMonth
		}
		return SelectMonth(records, picked.Month(), picked.Year()), label, nil
	case ModeCustom:
		if strings.TrimSpace(f.Date) == "" {
			return nil, "", fmt.Errorf("%w: custom date is required", ErrInvalidFilter)
		}
		subset, err := SelectCustomDate(records, f.Date)
		if err != nil {
			return nil, "", err
		}
		stored, _ := calendar.InputToStored(f.Date)
		return subset, fmt.Sprintf("%s %s", lc.CustomDay, stored), nil
	case ModeQuick:
		switch f.Quick {
		case QuickToday:
			return Filter{Mode: ModeDay}.Apply(records, now, loc, lc)
		case QuickLast7:
			return Filter{Mode: ModeWeek}.Apply(records, now, loc, lc)
		case QuickMonth:
			return Filter{Mode: ModeMonth}.Apply(records, now, loc, lc)
		default:
			return nil, "", fmt.Errorf("%w: unknown quick filter %q", ErrInvalidFilter, f.Quick)
		}
	default:
		return nil, "", fmt.Errorf("%w: unknown mode %q", ErrInvalidFilter, f.Mode)
	}
}

func selectWhere(records []models.VoteRecord, keep func(models.VoteRecord) bool) []models.VoteRecord {
	subset := make([]models.VoteRecord, 0, len(records))
	for _, record := range records {
		if keep == nil || keep(record) {
			subset = append(subset, record)
		}
	}
	return subset
}
