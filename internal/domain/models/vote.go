package models

import (
	"fmt"
	"strings"
)

// Mood enumerates the three satisfaction choices offered by the kiosk.
type Mood string

const (
	MoodVerySatisfied Mood = "very_satisfied"
	MoodSatisfied     Mood = "satisfied"
	MoodDissatisfied  Mood = "dissatisfied"
)

// Moods lists the known moods in display order.
var Moods = []Mood{MoodVerySatisfied, MoodSatisfied, MoodDissatisfied}

// Placeholder is shown in listings for missing or unknown values.
const Placeholder = "N/A"

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodVerySatisfied, MoodSatisfied, MoodDissatisfied:
		return true
	default:
		return false
	}
}

// Display renders the raw mood for listings, e.g. "very satisfied".
func (m Mood) Display() string {
	if m == "" {
		return Placeholder
	}
	return strings.ReplaceAll(string(m), "_", " ")
}

// ParseMood normalizes user input into a known Mood.
func ParseMood(value string) (Mood, error) {
	mood := Mood(strings.TrimSpace(strings.ToLower(value)))
	if !mood.Valid() {
		return "", fmt.Errorf("unknown mood %q", value)
	}
	return mood, nil
}

// VoteRecord is one stored survey response. Date and Time keep the locale
// string representation they were written with.
type VoteRecord struct {
	ID      int64  `bson:"id,omitempty" json:"id"`
	Mood    Mood   `bson:"mood" json:"mood"`
	Date    string `bson:"date" json:"date"`
	Time    string `bson:"time" json:"time"`
	Weekday string `bson:"weekday" json:"weekday"`
}

// HasID reports whether the record was written through the allocator.
func (r VoteRecord) HasID() bool {
	return r.ID > 0
}

// Counter tracks the last id handed out by the allocator.
type Counter struct {
	Name  string `bson:"_id" json:"name"`
	Value int64  `bson:"value" json:"value"`
}
