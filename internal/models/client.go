package models

type Client struct {
	Model
	Name         string `gorm:"size:255;not null" json:"name"`
	Company      string `gorm:"size:255" json:"company"`
	ContactName  string `gorm:"size:255" json:"contact_name"`
	ContactEmail string `gorm:"size:255" json:"contact_email"`
	ContactPhone string `gorm:"size:50" json:"contact_phone"`
	Notes        string `gorm:"type:text" json:"notes"` // пожелания, договорённости

	Projects []Project `json:"projects,omitempty"`
}
