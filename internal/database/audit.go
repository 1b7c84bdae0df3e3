package database

import (
	"fmt"

	"studio-hub/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateAuditLog: запись в журнал для обычных CRUD-действий.
// Ошибка только логируется: основное действие уже выполнено.
func CreateAuditLog(userID uint, entity string, entityID uint, action, details string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := DB.Create(&record).Error; err != nil {
		zap.L().Warn("audit write failed",
			zap.String("entity", entity),
			zap.Uint("entity_id", entityID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// WriteAudit пишет строку журнала внутри транзакции и возвращает ошибку вызывающему.
func WriteAudit(tx *gorm.DB, rec *models.AuditLog) error {
	if err := tx.Create(rec).Error; err != nil {
		return fmt.Errorf("audit %s/%d %s: %w", rec.Entity, rec.EntityID, rec.Action, err)
	}
	return nil
}

// EntityHistory: журнал одной сущности в хронологическом порядке.
func EntityHistory(db *gorm.DB, entity string, entityID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("entity = ? AND entity_id = ?", entity, entityID).
		Preload("User").
		Order("created_at asc, id asc").
		Find(&logs).Error
	return logs, err
}
