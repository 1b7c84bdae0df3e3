package models

import "time"

// AuditLog: журнал изменений. Строки только добавляются.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID uint  `gorm:"index" json:"user_id"`
	User   *User `json:"user,omitempty"`

	Entity   string `gorm:"size:50;not null;index:idx_audit_entity" json:"entity"` // "task", "event", "shooting" ...
	EntityID uint   `gorm:"index:idx_audit_entity" json:"entity_id"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "status_change" и т.п.

	Field    string  `gorm:"size:30" json:"field,omitempty"`
	OldValue *string `gorm:"size:100" json:"old_value,omitempty"`
	NewValue *string `gorm:"size:100" json:"new_value,omitempty"`

	ActionID string `gorm:"size:36;index" json:"action_id,omitempty"` // общий для строк одного действия
	Details  string `gorm:"type:text" json:"details,omitempty"`
}
