// Package locale holds the display strings the kiosk writes and the dashboard shows.
package locale

import (
	"strings"
	"time"

	"github.com/mamadbah2/satisfaction/internal/domain/models"
)

// Default is the locale used by the original kiosk deployment.
const Default = "pt-PT"

// Locale groups every localized string used by the service.
type Locale struct {
	Tag      string
	Weekdays [7]string
	Months   [12]string
	Moods    map[models.Mood]string

	Today      string
	Last7Days  string
	ThisMonth  string
	AllRecords string
	CustomDay  string
	DateRange  string
	Total      string
}

var portuguese = Locale{
	Tag:      "pt-PT",
	Weekdays: [7]string{"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado"},
	Months:   [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"},
	Moods: map[models.Mood]string{
		models.MoodVerySatisfied: "😀 Muito Satisfeito",
		models.MoodSatisfied:     "🙂 Satisfeito",
		models.MoodDissatisfied:  "😡 Insatisfeito",
	},
	Today:      "Hoje",
	Last7Days:  "Últimos 7 dias",
	ThisMonth:  "Mês atual",
	AllRecords: "Todos os registos",
	CustomDay:  "Dia",
	DateRange:  "Intervalo",
	Total:      "Total",
}

var english = Locale{
	Tag:      "en",
	Weekdays: [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	Months:   [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	Moods: map[models.Mood]string{
		models.MoodVerySatisfied: "😀 Very satisfied",
		models.MoodSatisfied:     "🙂 Satisfied",
		models.MoodDissatisfied:  "😡 Dissatisfied",
	},
	Today:      "Today",
	Last7Days:  "Last 7 days",
	ThisMonth:  "Current month",
	AllRecords: "All records",
	CustomDay:  "Day",
	DateRange:  "Range",
	Total:      "Total",
}

// Lookup returns the locale for tag, falling back to Default.
// Any tag with an "en" prefix selects English.
func Lookup(tag string) Locale {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	if normalized == "en" || strings.HasPrefix(normalized, "en-") || strings.HasPrefix(normalized, "en_") {
		return english
	}
	return portuguese
}

// Supported reports whether tag maps to a locale table.
func Supported(tag string) bool {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	return normalized == "pt" || normalized == "pt-pt" || normalized == "en" ||
		strings.HasPrefix(normalized, "en-") || strings.HasPrefix(normalized, "en_")
}

// Weekday returns the localized weekday name of t.
func (l Locale) Weekday(t time.Time) string {
	return l.Weekdays[t.Weekday()]
}

// MoodLabel returns the chart label of mood.
func (l Locale) MoodLabel(mood models.Mood) string {
	if label, ok := l.Moods[mood]; ok {
		return label
	}
	return models.Placeholder
}

// MoodLabels returns the labels of models.Moods in order.
func (l Locale) MoodLabels() []string {
	labels := make([]string, 0, len(models.Moods))
	for _, mood := range models.Moods {
		labels = append(labels, l.MoodLabel(mood))
	}
	return labels
}
