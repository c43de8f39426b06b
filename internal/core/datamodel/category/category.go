package category

import "time"

type ExpenseCategory struct {
	ID          int64     `gorm:"primaryKey"`
	CompanyID   string    `gorm:"column:company_id;not null;uniqueIndex:idx_category_company_name"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:idx_category_company_name"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExpenseCategory) TableName() string {
	return "expense_categories"
}
