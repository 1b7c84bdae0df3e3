package models

import "time"

type ShootingStatus string

const (
	ShootingPending   ShootingStatus = "pending"
	ShootingApproved  ShootingStatus = "approved"
	ShootingRejected  ShootingStatus = "rejected"
	ShootingCompleted ShootingStatus = "completed"
)

var ShootingStatuses = []string{
	string(ShootingPending),
	string(ShootingApproved),
	string(ShootingRejected),
	string(ShootingCompleted),
}

// ShootingRequest: заявка на съёмку. Владеет своими строками CrewAssignment.
type ShootingRequest struct {
	Model
	ProjectID *uint `json:"project_id,omitempty"`
	TaskID    *uint `json:"task_id,omitempty"` // связанная задача, её статус следует за согласованием

	Title    string         `gorm:"size:255;not null" json:"title"`
	Location string         `gorm:"size:255" json:"location"`
	ShootAt  *time.Time     `json:"shoot_at,omitempty"`
	Notes    string         `gorm:"type:text" json:"notes"`
	Status   ShootingStatus `gorm:"type:varchar(50);not null" json:"status"`

	CreatedBy uint `json:"created_by"`

	Crew []CrewAssignment `gorm:"foreignKey:ShootingID;constraint:OnDelete:CASCADE" json:"crew,omitempty"`
}
