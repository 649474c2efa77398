// Package aggregation computes per-mood counts, percentages and the monthly
// evolution series over any slice of vote records.
package aggregation

import (
	"fmt"

	"github.com/mamadbah2/satisfaction/internal/calendar"
	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/locale"
)

// Counts holds per-mood tallies. Total is every record given, Rated only
// the ones with a known mood.
type Counts struct {
	ByMood map[models.Mood]int
	Total  int
	Rated  int
}

// CountByMood tallies records by mood, skipping unknown or missing moods.
func CountByMood(records []models.VoteRecord) Counts {
	counts := Counts{ByMood: make(map[models.Mood]int, len(models.Moods))}
	for _, mood := range models.Moods {
		counts.ByMood[mood] = 0
	}

	for _, record := range records {
		counts.Total++
		if !record.Mood.Valid() {
			continue
		}
		counts.ByMood[record.Mood]++
		counts.Rated++
	}

	return counts
}

// Percentage formats count/denominator with one fractional digit.
func Percentage(count, denominator int) string {
	if denominator <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(count)/float64(denominator)*100)
}

// Percentage returns the share of mood among rated records.
func (c Counts) Percentage(mood models.Mood) string {
	return Percentage(c.ByMood[mood], c.Rated)
}

// Series returns the counts in models.Moods order.
func (c Counts) Series() []int {
	data := make([]int, 0, len(models.Moods))
	for _, mood := range models.Moods {
		data = append(data, c.ByMood[mood])
	}
	return data
}

// Summarize turns counts into the summary panel view.
func Summarize(label string, records []models.VoteRecord, loc locale.Locale) models.Summary {
	counts := CountByMood(records)
	summary := models.Summary{
		Label: label,
		Total: counts.Total,
		Rated: counts.Rated,
		Moods: make([]models.MoodStat, 0, len(models.Moods)),
	}
	for _, mood := range models.Moods {
		summary.Moods = append(summary.Moods, models.MoodStat{
			Mood:       mood,
			Label:      loc.MoodLabel(mood),
			Count:      counts.ByMood[mood],
			Percentage: counts.Percentage(mood),
		})
	}
	return summary
}

// Evolution holds one count per calendar month (January first) for each mood.
// Every year is merged into the same twelve buckets.
type Evolution struct {
	VerySatisfied [12]int
	Satisfied     [12]int
	Dissatisfied  [12]int
}

// Series returns the monthly buckets of mood.
func (e Evolution) Series(mood models.Mood) [12]int {
	switch mood {
	case models.MoodVerySatisfied:
		return e.VerySatisfied
	case models.MoodSatisfied:
		return e.Satisfied
	case models.MoodDissatisfied:
		return e.Dissatisfied
	default:
		return [12]int{}
	}
}

// MonthlyEvolution buckets records by calendar month. Records whose date does
// not split into three numeric parts, or whose mood is unknown, are skipped.
func MonthlyEvolution(records []models.VoteRecord) Evolution {
	var evolution Evolution
	for _, record := range records {
		_, month, _, err := calendar.DateParts(record.Date)
		if err != nil {
			continue
		}
		bucket := month - 1
		switch record.Mood {
		case models.MoodVerySatisfied:
			evolution.VerySatisfied[bucket]++
		case models.MoodSatisfied:
			evolution.Satisfied[bucket]++
		case models.MoodDissatisfied:
			evolution.Dissatisfied[bucket]++
		}
	}
	return evolution
}
