package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"fitcast-backend/outfit"
)

// PlanStatus represents the status of a packing plan
type PlanStatus string

const (
	PlanStatusPending    PlanStatus = "pending"
	PlanStatusInProgress PlanStatus = "in_progress"
	PlanStatusCompleted  PlanStatus = "completed"
	PlanStatusFailed     PlanStatus = "failed"
)

// Step statuses
const (
	StepPending    = "pending"
	StepInProgress = "in_progress"
	StepCompleted  = "completed"
	StepFailed     = "failed"
)

// PlanStep represents a step in building a packing plan
type PlanStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// PlanSteps represents a list of plan steps
type PlanSteps []PlanStep

// Value implements driver.Valuer for JSONB
func (s PlanSteps) Value() (driver.Value, error) {
	if s == nil {
		s = PlanSteps{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *PlanSteps) Scan(value interface{}) error {
	ok, err := scanJSONB(value, s)
	if !ok && err == nil {
		*s = make(PlanSteps, 0)
	}
	return err
}

// PackingItems is the aggregated packing list stored as JSONB
type PackingItems []outfit.PackingItem

// Value implements driver.Valuer for JSONB
func (p PackingItems) Value() (driver.Value, error) {
	if p == nil {
		p = PackingItems{}
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB
func (p *PackingItems) Scan(value interface{}) error {
	ok, err := scanJSONB(value, p)
	if !ok && err == nil {
		*p = make(PackingItems, 0)
	}
	return err
}

// PlanDay is the forecast and outfit for one day of a trip
type PlanDay struct {
	Date      string        `json:"date"`
	Point     *outfit.Point `json:"point,omitempty"`
	Outfit    outfit.Outfit `json:"outfit"`
	Label     string        `json:"label"`
	Estimated bool          `json:"estimated"`
}

// PlanDays represents the per-day breakdown stored as JSONB
type PlanDays []PlanDay

// Value implements driver.Valuer for JSONB
func (d PlanDays) Value() (driver.Value, error) {
	if d == nil {
		d = PlanDays{}
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB
func (d *PlanDays) Scan(value interface{}) error {
	ok, err := scanJSONB(value, d)
	if !ok && err == nil {
		*d = make(PlanDays, 0)
	}
	return err
}

// PackingPlan represents a trip packing plan built in the background
type PackingPlan struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"user_id"`
	Destination  string       `json:"destination"`
	StartDate    time.Time    `json:"start_date"`
	EndDate      time.Time    `json:"end_date"`
	Status       PlanStatus   `json:"status"`
	CurrentStep  *string      `json:"current_step,omitempty"`
	Steps        PlanSteps    `json:"steps"`
	Items        PackingItems `json:"items"`
	Days         PlanDays     `json:"days"`
	Fitcast      *string      `json:"fitcast,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// DayCount returns the number of calendar days covered by the trip, inclusive
func (p *PackingPlan) DayCount() int {
	start := time.Date(p.StartDate.Year(), p.StartDate.Month(), p.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(p.EndDate.Year(), p.EndDate.Month(), p.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Dates lists each trip date as YYYY-MM-DD
func (p *PackingPlan) Dates() []string {
	n := p.DayCount()
	dates := make([]string, 0, n)
	start := time.Date(p.StartDate.Year(), p.StartDate.Month(), p.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return dates
}
