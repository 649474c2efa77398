// Package calendar is the single place where stored date and time strings
// are parsed and formatted. Every filter and aggregate goes through it.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the stored DD/MM/YYYY representation.
	DateLayout = "02/01/2006"
	// TimeLayout is the stored wall-clock representation.
	TimeLayout = "15:04:05"
	// InputLayout is what date pickers submit.
	InputLayout = "2006-01-02"
)

// ErrMalformedDate is returned when a stored date does not split into three numeric parts.
var ErrMalformedDate = errors.New("malformed date")

// ErrMalformedTime is returned for clock strings that are not HH:MM[:SS].
var ErrMalformedTime = errors.New("malformed time")

// FormatDate renders t the way votes store their date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime renders t the way votes store their time.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// DateParts splits a stored DD/MM/YYYY string.
func DateParts(value string) (day, month, year int, err error) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedDate, value)
	}

	numbers := make([]int, 3)
	for i, part := range parts {
		n, err := parseUnsigned(part)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedDate, value)
		}
		numbers[i] = n
	}

	day, month, year = numbers[0], numbers[1], numbers[2]
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("%w: %q out of range", ErrMalformedDate, value)
	}
	return day, month, year, nil
}

// ParseDate returns midnight of the stored date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	day, month, year, err := DateParts(value)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar day", ErrMalformedDate, value)
	}
	return t, nil
}

// ParseInstant combines a stored date and time into one comparable instant.
func ParseInstant(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}

	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}

	values := [3]int{}
	limits := [3]int{23, 59, 59}
	for i, part := range parts {
		n, err := parseUnsigned(part)
		if err != nil || n > limits[i] {
			return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
		}
		values[i] = n
	}

	return day.Add(time.Duration(values[0])*time.Hour +
		time.Duration(values[1])*time.Minute +
		time.Duration(values[2])*time.Second), nil
}

// ParseInput parses a YYYY-MM-DD picker value at midnight in loc.
func ParseInput(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(InputLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedDate, err)
	}
	return t, nil
}

// InputToStored converts a YYYY-MM-DD picker value into the DD/MM/YYYY form.
func InputToStored(value string) (string, error) {
	t, err := ParseInput(value, time.UTC)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseUnsigned(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty numeric value")
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non numeric value %q", value)
		}
	}
	return strconv.Atoi(value)
}
