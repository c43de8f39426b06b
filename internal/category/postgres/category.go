package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mariustrier/TimeTrack-sub004/internal/category"
	categoryDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/category"
	"github.com/mariustrier/TimeTrack-sub004/internal/tenant"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListActive(ctx context.Context, companyID string) ([]*category.Category, error) {
	var rows []*categoryDatamodel.ExpenseCategory
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*category.Category, len(rows))
	for i, row := range rows {
		out[i] = category.FromDataModel(row)
	}
	return out, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, companyID, name string) (*category.Category, error) {
	var row categoryDatamodel.ExpenseCategory
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("name = ?", name).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrNotFound
		}
		return nil, err
	}
	return category.FromDataModel(&row), nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	row := category.ToDataModel(c)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	c.ID = row.ID
	return nil
}
