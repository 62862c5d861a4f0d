package model

// Permission is a sparse override row. Absence of a row for a
// (target_id, name) pair means the permission defaults to allowed;
// the read side reconstructs the full set against the known key list.
type Permission struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null;index" json:"name"`
	Target   string `gorm:"type:varchar(50);not null" json:"target"` // admin | dealer | solution_partner | sales_partner
	TargetID string `gorm:"type:uuid;index;not null" json:"target_id"`
	Status   bool   `gorm:"default:true" json:"status"`
}
