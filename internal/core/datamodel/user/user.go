package user

import "time"

type User struct {
	ID        string    `gorm:"primaryKey;column:id"`
	CompanyID string    `gorm:"column:company_id;not null;index"`
	Email     string    `gorm:"column:email;not null"`
	Name      string    `gorm:"column:name;not null"`
	Role      string    `gorm:"column:role;not null"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
