package models

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskOnHold     TaskStatus = "on_hold"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
	TaskCancelled  TaskStatus = "cancelled"
)

var TaskStatuses = []string{
	string(TaskTodo),
	string(TaskInProgress),
	string(TaskOnHold),
	string(TaskReview),
	string(TaskDone),
	string(TaskCancelled),
}

type Task struct {
	Model
	ProjectID *uint `json:"project_id,omitempty"`

	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(50);not null;index" json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	AssigneeID *uint `json:"assignee_id,omitempty"`
	CreatedBy  uint  `json:"created_by"`
}
