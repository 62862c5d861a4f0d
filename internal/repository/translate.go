package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TranslateParams addresses one pivot row: the pivot table, the foreign-key
// column pointing back at the base entity, the entity id, the language code
// and the language-specific field map.
type TranslateParams struct {
	Table        string
	TargetKey    string
	TargetID     string
	LanguageCode string
	Data         map[string]interface{}
}

// TranslateCreate inserts one pivot row for the given language. Map inserts
// bypass model hooks, so id and timestamps are set here.
func TranslateCreate(db *gorm.DB, p TranslateParams) (map[string]interface{}, error) {
	now := time.Now()
	row := map[string]interface{}{
		"id":            uuid.NewString(),
		p.TargetKey:     p.TargetID,
		"language_code": p.LanguageCode,
		"created_at":    now,
		"updated_at":    now,
	}
	for key, value := range p.Data {
		row[key] = value
	}

	if err := db.Table(p.Table).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// TranslateUpdate applies a partial field map to the active pivot row for
// (target_id, language_code).
func TranslateUpdate(db *gorm.DB, p TranslateParams) error {
	fields := map[string]interface{}{"updated_at": time.Now()}
	for key, value := range p.Data {
		fields[key] = value
	}

	return db.Table(p.Table).
		Where(fmt.Sprintf("%s = ?", p.TargetKey), p.TargetID).
		Where("language_code = ?", p.LanguageCode).
		Where("deleted_at IS NULL").
		Updates(fields).Error
}

// TranslateReplace soft-deletes the active pivot row for the language and
// inserts a fresh one, keeping at most one active row per
// (target_id, language_code).
func TranslateReplace(db *gorm.DB, p TranslateParams) (map[string]interface{}, error) {
	var row map[string]interface{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(p.Table).
			Where(fmt.Sprintf("%s = ?", p.TargetKey), p.TargetID).
			Where("language_code = ?", p.LanguageCode).
			Where("deleted_at IS NULL").
			Update("deleted_at", time.Now()).Error; err != nil {
			return err
		}

		created, err := TranslateCreate(tx, p)
		if err != nil {
			return err
		}
		row = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// TranslateDelete soft-deletes every active pivot row of the target entity,
// across all languages. Used by delete cascades.
func TranslateDelete(db *gorm.DB, table, targetKey, targetID string) error {
	return db.Table(table).
		Where(fmt.Sprintf("%s = ?", targetKey), targetID).
		Where("deleted_at IS NULL").
		Update("deleted_at", time.Now()).Error
}
