package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mariustrier/TimeTrack-sub004/internal/companyexpense"
	companyexpenseDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/companyexpense"
	"github.com/mariustrier/TimeTrack-sub004/internal/tenant"
)

type CompanyExpenseRepository struct {
	db *gorm.DB
}

func NewCompanyExpenseRepository(db *gorm.DB) *CompanyExpenseRepository {
	return &CompanyExpenseRepository{db: db}
}

func (r *CompanyExpenseRepository) Create(ctx context.Context, e *companyexpense.CompanyExpense) error {
	row := companyexpense.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	return nil
}

func (r *CompanyExpenseRepository) List(ctx context.Context, companyID string) ([]*companyexpense.CompanyExpense, error) {
	var rows []*companyexpenseDatamodel.CompanyExpense
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*companyexpense.CompanyExpense, len(rows))
	for i, row := range rows {
		out[i] = companyexpense.FromDataModel(row)
	}
	return out, nil
}
