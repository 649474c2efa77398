package dashboard

import (
	"sync"

	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/locale"
	"github.com/mamadbah2/satisfaction/internal/service/aggregation"
)

// Slot names a chart position on the dashboard.
type Slot string

const (
	SlotBar       Slot = "bar"
	SlotPie       Slot = "pie"
	SlotEvolution Slot = "evolution"
	SlotCompare   Slot = "compare"
)

// Colours follow models.Moods order.
var (
	moodFill   = []string{"rgba(40, 167, 69, 0.5)", "rgba(255, 193, 7, 0.5)", "rgba(220, 53, 69, 0.5)"}
	moodBorder = []string{"rgba(40, 167, 69, 1)", "rgba(255, 193, 7, 1)", "rgba(220, 53, 69, 1)"}
)

// ChartSlots holds at most one live chart per slot. Installing a chart
// releases the one it replaces.
type ChartSlots struct {
	mu        sync.Mutex
	charts    map[Slot]*models.Chart
	revision  int
	onRelease func(Slot, *models.Chart)
}

// NewChartSlots creates an empty slot set. onRelease may be nil.
func NewChartSlots(onRelease func(Slot, *models.Chart)) *ChartSlots {
	return &ChartSlots{
		charts:    make(map[Slot]*models.Chart),
		onRelease: onRelease,
	}
}

// Replace releases the current chart of slot and installs chart in its place.
func (s *ChartSlots) Replace(slot Slot, chart *models.Chart) *models.Chart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.charts[slot]; ok && prev != nil && s.onRelease != nil {
		s.onRelease(slot, prev)
	}
	s.revision++
	chart.Revision = s.revision
	s.charts[slot] = chart
	return chart
}

// Get returns the chart installed in slot.
func (s *ChartSlots) Get(slot Slot) (*models.Chart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chart, ok := s.charts[slot]
	return chart, ok
}

// ReleaseAll releases every installed chart.
func (s *ChartSlots) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot, chart := range s.charts {
		if s.onRelease != nil {
			s.onRelease(slot, chart)
		}
		delete(s.charts, slot)
	}
}

// BarChart builds the per-mood bar chart.
func BarChart(label string, counts aggregation.Counts, lc locale.Locale) *models.Chart {
	return &models.Chart{
		Type:   "bar",
		Labels: lc.MoodLabels(),
		Datasets: []models.Dataset{{
			Label:           label,
			Data:            counts.Series(),
			BackgroundColor: append([]string(nil), moodFill...),
			BorderColor:     append([]string(nil), moodBorder...),
			BorderWidth:     1,
		}},
	}
}

// PieChart builds the mood share chart.
func PieChart(counts aggregation.Counts, lc locale.Locale) *models.Chart {
	return &models.Chart{
		Type:   "pie",
		Labels: lc.MoodLabels(),
		Datasets: []models.Dataset{{
			Label:           lc.Total,
			Data:            counts.Series(),
			BackgroundColor: append([]string(nil), moodBorder...),
			BorderWidth:     1,
		}},
	}
}

// EvolutionChart builds one line per mood over the twelve months.
func EvolutionChart(evolution aggregation.Evolution, lc locale.Locale) *models.Chart {
	chart := &models.Chart{
		Type:     "line",
		Labels:   append([]string(nil), lc.Months[:]...),
		Datasets: make([]models.Dataset, 0, len(models.Moods)),
	}
	for i, mood := range models.Moods {
		series := evolution.Series(mood)
		chart.Datasets = append(chart.Datasets, models.Dataset{
			Label:           lc.MoodLabel(mood),
			Data:            append([]int(nil), series[:]...),
			BackgroundColor: []string{moodFill[i]},
			BorderColor:     []string{moodBorder[i]},
			BorderWidth:     2,
		})
	}
	return chart
}

// CompareChart groups the mood counts of two subsets side by side.
func CompareChart(first, second models.Summary, lc locale.Locale) *models.Chart {
	dataset := func(summary models.Summary, fill, border string) models.Dataset {
		data := make([]int, 0, len(summary.Moods))
		for _, stat := range summary.Moods {
			data = append(data, stat.Count)
		}
		return models.Dataset{
			Label:           summary.Label,
			Data:            data,
			BackgroundColor: []string{fill},
			BorderColor:     []string{border},
			BorderWidth:     1,
		}
	}
	return &models.Chart{
		Type:   "bar",
		Labels: lc.MoodLabels(),
		Datasets: []models.Dataset{
			dataset(first, "rgba(54, 162, 235, 0.5)", "rgba(54, 162, 235, 1)"),
			dataset(second, "rgba(108, 117, 125, 0.5)", "rgba(108, 117, 125, 1)"),
		},
	}
}
