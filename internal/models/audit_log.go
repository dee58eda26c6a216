package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID   uint
	Username string `gorm:"size:150"`

	Entity   string `gorm:"size:50;not null;index:idx_audit_entity"` // "appointment", "user", "status", ...
	EntityID uint   `gorm:"index:idx_audit_entity"`
	Action   string `gorm:"size:50;not null"` // "create", "update", "delete", "transition"
	Details  string `gorm:"type:text"`
}
