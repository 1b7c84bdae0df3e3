package models

type AssetStatus string

const (
	AssetAvailable   AssetStatus = "available"
	AssetCheckedOut  AssetStatus = "checked_out"
	AssetMaintenance AssetStatus = "maintenance"
	AssetRetired     AssetStatus = "retired"
)

var AssetStatuses = []string{
	string(AssetAvailable),
	string(AssetCheckedOut),
	string(AssetMaintenance),
	string(AssetRetired),
}

// Asset: оборудование студии (камеры, свет, звук), выдаётся под съёмки.
type Asset struct {
	Model
	Name        string      `gorm:"size:255;not null" json:"name"`
	Category    string      `gorm:"size:100" json:"category"` // камера, свет, звук и т.п.
	Serial      string      `gorm:"size:100;uniqueIndex" json:"serial"`
	Description string      `gorm:"type:text" json:"description"`
	Status      AssetStatus `gorm:"type:varchar(50);not null" json:"status"`

	HolderID *uint `json:"holder_id,omitempty"` // у кого сейчас на руках
}
