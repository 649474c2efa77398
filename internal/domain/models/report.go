package models

import "time"

// PeriodReport represents an aggregated summary pushed by the scheduler.
type PeriodReport struct {
	Label       string    `bson:"label" json:"label"`
	Start       string    `bson:"start" json:"start"`
	End         string    `bson:"end" json:"end"`
	Summary     Summary   `bson:"summary" json:"summary"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
}
