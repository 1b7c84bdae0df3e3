package models

import "time"

type MeetingStatus string

const (
	MeetingScheduled  MeetingStatus = "scheduled"
	MeetingInProgress MeetingStatus = "in_progress"
	MeetingCompleted  MeetingStatus = "completed"
	MeetingCancelled  MeetingStatus = "cancelled"
)

var MeetingStatuses = []string{
	string(MeetingScheduled),
	string(MeetingInProgress),
	string(MeetingCompleted),
	string(MeetingCancelled),
}

type Meeting struct {
	Model
	ClientID *uint `json:"client_id,omitempty"`

	Title     string        `gorm:"size:255;not null" json:"title"`
	Agenda    string        `gorm:"type:text" json:"agenda"`
	StartsAt  *time.Time    `json:"starts_at,omitempty"`
	Status    MeetingStatus `gorm:"type:varchar(50);not null" json:"status"`
	CreatedBy uint          `json:"created_by"`
}
