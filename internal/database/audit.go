package database

import (
	"context"
	"fmt"

	"agenda-escolar/internal/models"
)

// RecordAudit grava no mesmo *gorm.DB da operação; dentro de InTx, na mesma transação.
func (s *Store) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

func (s *Store) AuditTrail(ctx context.Context, entity string, entityID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at, id").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("audit trail: %w", err)
	}
	return logs, nil
}

// RecentAudit: últimas entradas, mais novas primeiro.
func (s *Store) RecentAudit(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := s.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("recent audit: %w", err)
	}
	return logs, nil
}
