package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID               int64           `gorm:"primaryKey"`
	CompanyID        string          `gorm:"column:company_id;not null;index:idx_expenses_company_status"`
	UserID           string          `gorm:"column:user_id;not null;index"`
	ProjectID        string          `gorm:"column:project_id"`
	Amount           decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Currency         string          `gorm:"column:currency;size:3;not null"`
	CurrencyAmount   decimal.Decimal `gorm:"column:currency_amount;type:numeric(14,2);not null"`
	Description      string          `gorm:"column:description;not null"`
	Category         string          `gorm:"column:category;not null"`
	ReceiptURL       *string         `gorm:"column:receipt_url"`
	ExpenseDate      time.Time       `gorm:"column:expense_date;not null"`
	ApprovalStatus   string          `gorm:"column:approval_status;not null;index:idx_expenses_company_status"`
	SubmittedAt      *time.Time      `gorm:"column:submitted_at"`
	ApprovedAt       *time.Time      `gorm:"column:approved_at"`
	ApprovedBy       *string         `gorm:"column:approved_by"`
	RejectedAt       *time.Time      `gorm:"column:rejected_at"`
	RejectedBy       *string         `gorm:"column:rejected_by"`
	RejectionReason  *string         `gorm:"column:rejection_reason"`
	IsFinalized      bool            `gorm:"column:is_finalized;not null"`
	FinalizedAt      *time.Time      `gorm:"column:finalized_at"`
	ExternalSyncedAt *time.Time      `gorm:"column:external_synced_at"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
