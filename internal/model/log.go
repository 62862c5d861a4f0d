package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Log is an append-only audit record. Content is a JSON snapshot of the
// target row before or after the mutation.
type Log struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	Type       string    `gorm:"type:varchar(20);not null" json:"type"` // admin | dealer | user
	Process    string    `gorm:"type:varchar(20);not null" json:"process"`
	TargetName string    `gorm:"type:varchar(100);not null;index" json:"target_name"`
	TargetID   string    `gorm:"type:varchar(64);index" json:"target_id"`
	UserID     string    `gorm:"type:uuid;index" json:"user_id"`
	Content    string    `gorm:"type:jsonb" json:"content"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
