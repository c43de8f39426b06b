package audit

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID         string         `gorm:"primaryKey;column:id;type:uuid" db:"id"`
	CompanyID  string         `gorm:"column:company_id;not null;index:idx_audit_company_created" db:"company_id"`
	EntityType string         `gorm:"column:entity_type;not null" db:"entity_type"`
	EntityID   string         `gorm:"column:entity_id;not null;index" db:"entity_id"`
	Action     string         `gorm:"column:action;not null" db:"action"`
	FromStatus *string        `gorm:"column:from_status" db:"from_status"`
	ToStatus   *string        `gorm:"column:to_status" db:"to_status"`
	ActorID    string         `gorm:"column:actor_id;not null" db:"actor_id"`
	Metadata   datatypes.JSON `gorm:"column:metadata" db:"metadata"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null;index:idx_audit_company_created" db:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
