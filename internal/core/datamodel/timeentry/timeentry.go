package timeentry

import (
	"time"

	"gorm.io/gorm"
)

type TimeEntry struct {
	ID               int64          `gorm:"primaryKey"`
	CompanyID        string         `gorm:"column:company_id;not null;index:idx_time_entries_owner_date"`
	UserID           string         `gorm:"column:user_id;not null;index:idx_time_entries_owner_date"`
	ProjectID        string         `gorm:"column:project_id;not null"`
	Date             time.Time      `gorm:"column:date;not null;index:idx_time_entries_owner_date"`
	Hours            float64        `gorm:"column:hours;not null"`
	Comment          string         `gorm:"column:comment"`
	BillingStatus    string         `gorm:"column:billing_status;not null"`
	ApprovalStatus   string         `gorm:"column:approval_status;not null;index"`
	SubmittedAt      *time.Time     `gorm:"column:submitted_at"`
	SubmittedBy      *string        `gorm:"column:submitted_by"`
	ApprovedAt       *time.Time     `gorm:"column:approved_at"`
	ApprovedBy       *string        `gorm:"column:approved_by"`
	RejectedAt       *time.Time     `gorm:"column:rejected_at"`
	RejectedBy       *string        `gorm:"column:rejected_by"`
	LockedAt         *time.Time     `gorm:"column:locked_at"`
	LockedBy         *string        `gorm:"column:locked_by"`
	ExternalSyncedAt *time.Time     `gorm:"column:external_synced_at"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
