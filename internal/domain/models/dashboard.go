package models

// MoodStat is one line of a summary panel.
type MoodStat struct {
	Mood       Mood   `json:"mood"`
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// Summary aggregates a record subset for display.
type Summary struct {
	Label string     `json:"label"`
	Total int        `json:"total"`
	Rated int        `json:"rated"`
	Moods []MoodStat `json:"moods"`
}

// Dataset mirrors the dataset block expected by the browser charting library.
type Dataset struct {
	Label           string   `json:"label"`
	Data            []int    `json:"data"`
	BackgroundColor []string `json:"backgroundColor,omitempty"`
	BorderColor     []string `json:"borderColor,omitempty"`
	BorderWidth     int      `json:"borderWidth,omitempty"`
	Fill            bool     `json:"fill,omitempty"`
}

// Chart is the data half of a chart configuration. Rendering stays in the browser.
type Chart struct {
	Type     string    `json:"type"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	Revision int       `json:"revision"`
}

// TableRow is one history table line with placeholders already applied.
type TableRow struct {
	ID      string `json:"id"`
	Mood    string `json:"mood"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Weekday string `json:"weekday"`
}

// Page is one slice of the paginated history table.
type Page struct {
	Index     int        `json:"index"`
	Count     int        `json:"count"`
	Size      int        `json:"size"`
	Indicator string     `json:"indicator"`
	Rows      []TableRow `json:"rows"`
}

// PeriodPanels holds the fixed day/week/month summaries shown on load.
type PeriodPanels struct {
	Day   Summary `json:"day"`
	Week  Summary `json:"week"`
	Month Summary `json:"month"`
}

// FilterView is what a filter action re-renders.
type FilterView struct {
	Summary   Summary `json:"summary"`
	Bar       *Chart  `json:"bar"`
	Pie       *Chart  `json:"pie"`
	Evolution *Chart  `json:"evolution"`
	Page      Page    `json:"page"`
}

// DashboardView is the full one-pass render after loading.
type DashboardView struct {
	FilterView
	Periods PeriodPanels `json:"periods"`
	Loaded  bool         `json:"loaded"`
	Records int          `json:"records"`
}

// Comparison places two day summaries side by side.
type Comparison struct {
	First  Summary `json:"first"`
	Second Summary `json:"second"`
	Chart  *Chart  `json:"chart"`
}
