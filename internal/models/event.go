package models

import "time"

type EventStatus string
type EventPhase string

const (
	EventScheduled EventStatus = "scheduled"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"

	PhasePlanning       EventPhase = "planning"
	PhasePreProduction  EventPhase = "pre_production"
	PhaseProduction     EventPhase = "production"
	PhasePostProduction EventPhase = "post_production"
	PhaseDelivered      EventPhase = "delivered"
)

var EventStatuses = []string{
	string(EventScheduled),
	string(EventOngoing),
	string(EventCompleted),
	string(EventCancelled),
}

// порядок фаз: только соглашение для UI, на уровне данных не проверяется
var EventPhases = []string{
	string(PhasePlanning),
	string(PhasePreProduction),
	string(PhaseProduction),
	string(PhasePostProduction),
	string(PhaseDelivered),
}

type Event struct {
	Model
	ProjectID *uint `json:"project_id,omitempty"`

	Title    string      `gorm:"size:255;not null" json:"title"`
	Location string      `gorm:"size:255" json:"location"`
	StartsAt *time.Time  `json:"starts_at,omitempty"`
	EndsAt   *time.Time  `json:"ends_at,omitempty"`
	Status   EventStatus `gorm:"type:varchar(50);not null" json:"status"`
	Phase    EventPhase  `gorm:"type:varchar(50);not null" json:"phase"`

	CreatedBy uint `json:"created_by"`
}
