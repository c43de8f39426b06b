package category

import (
	"strings"
	"time"

	categoryDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/category"
)

type Category struct {
	ID          int64     `json:"id"`
	CompanyID   string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCategory(companyID string, dto CreateCategoryDTO) *Category {
	now := time.Now()
	return &Category{
		CompanyID:   companyID,
		Name:        NormalizeName(dto.Name),
		Description: strings.TrimSpace(dto.Description),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NormalizeName is the canonical form categories are stored and matched in.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func ToDataModel(c *Category) *categoryDatamodel.ExpenseCategory {
	return &categoryDatamodel.ExpenseCategory{
		ID:          c.ID,
		CompanyID:   c.CompanyID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.ExpenseCategory) *Category {
	return &Category{
		ID:          c.ID,
		CompanyID:   c.CompanyID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
