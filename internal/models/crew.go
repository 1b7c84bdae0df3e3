package models

type CrewRole string
type ParticipantKind string

const (
	CrewCamper     CrewRole = "camper"
	CrewAdditional CrewRole = "additional"
	CrewRunner     CrewRole = "runner"

	KindInternal  ParticipantKind = "internal"
	KindFreelance ParticipantKind = "freelance"
)

var CrewRoles = []CrewRole{CrewCamper, CrewAdditional, CrewRunner}

func ValidCrewRole(r CrewRole) bool {
	for _, known := range CrewRoles {
		if r == known {
			return true
		}
	}
	return false
}

// CrewAssignment: строка состава съёмочной группы.
// internal: ссылка на пользователя, своих данных нет.
// freelance: имя/контакты/ставка хранятся прямо в строке.
type CrewAssignment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ShootingID uint            `gorm:"not null;index:idx_crew_partition" json:"shooting_id"`
	Role       CrewRole        `gorm:"type:varchar(30);not null;index:idx_crew_partition" json:"role"`
	Kind       ParticipantKind `gorm:"type:varchar(20);not null;index:idx_crew_partition" json:"kind"`

	UserID *uint `gorm:"index" json:"user_id,omitempty"`
	User   *User `json:"user,omitempty"`

	Name    string  `gorm:"size:255" json:"name,omitempty"`
	Contact string  `gorm:"size:255" json:"contact,omitempty"`
	Company string  `gorm:"size:255" json:"company,omitempty"`
	Cost    float64 `json:"cost,omitempty"`
}

// Freelancer: справочник для автозаполнения формы. Не источник истины.
type Freelancer struct {
	Model
	Name     string  `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Contact  string  `gorm:"size:255" json:"contact"`
	Company  string  `gorm:"size:255" json:"company"`
	LastCost float64 `json:"last_cost"`
}
