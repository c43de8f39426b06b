package companyexpense

import (
	"time"

	"github.com/shopspring/decimal"
)

type CompanyExpense struct {
	ID          int64           `gorm:"primaryKey"`
	CompanyID   string          `gorm:"column:company_id;not null;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Currency    string          `gorm:"column:currency;size:3;not null"`
	Category    string          `gorm:"column:category;not null"`
	Description string          `gorm:"column:description"`
	Date        time.Time       `gorm:"column:date;not null"`
	Recurring   bool            `gorm:"column:recurring;not null"`
	Frequency   string          `gorm:"column:frequency"`
	CreatedBy   string          `gorm:"column:created_by;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CompanyExpense) TableName() string {
	return "company_expenses"
}
