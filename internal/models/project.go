package models

import "time"

type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "planned"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectFinished   ProjectStatus = "finished"
	ProjectCancelled  ProjectStatus = "cancelled"
)

var ProjectStatuses = []string{
	string(ProjectPlanned),
	string(ProjectInProgress),
	string(ProjectOnHold),
	string(ProjectFinished),
	string(ProjectCancelled),
}

type Project struct {
	Model
	ClientID uint    `json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	Title       string        `gorm:"size:255;not null" json:"title"`
	Status      ProjectStatus `gorm:"type:varchar(50);not null" json:"status"`
	Description string        `gorm:"type:text" json:"description"`

	PlannedStart *time.Time `json:"planned_start,omitempty"`
	PlannedEnd   *time.Time `json:"planned_end,omitempty"`

	CreatedBy uint `json:"created_by"`
	ManagerID uint `json:"manager_id"` // User.ID роли project_manager
}
