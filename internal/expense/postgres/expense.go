package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	auditPostgres "github.com/mariustrier/TimeTrack-sub004/internal/audit/postgres"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/database"
	expenseDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/expense"
	"github.com/mariustrier/TimeTrack-sub004/internal/expense"
	"github.com/mariustrier/TimeTrack-sub004/internal/tenant"
)

// ExpenseRepository implements the expense.Repository interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	row := expense.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	return nil
}

func (r *ExpenseRepository) List(ctx context.Context, companyID string, f expense.ListFilter) ([]*expense.Expense, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("approval_status = ?", string(f.Status))
	}

	var rows []*expenseDatamodel.Expense
	if err := q.Order("expense_date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(rows), nil
}

// Transition locks the candidates, updates those still in t.From and not
// finalized, and writes one audit entry per moved row in the same
// transaction.
func (r *ExpenseRepository) Transition(ctx context.Context, t expense.Transition) (expense.TransitionResult, error) {
	var result expense.TransitionResult

	err := database.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		q := database.ForUpdate(tx).
			Scopes(tenant.Scope(t.CompanyID)).
			Where("id IN ?", t.IDs).
			Where("approval_status = ? AND is_finalized = ?", string(t.From), false)
		if t.OwnerID != "" {
			q = q.Where("user_id = ?", t.OwnerID)
		}

		var rows []*expenseDatamodel.Expense
		if err := q.Order("id ASC").Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]int64, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}

		updates := make(map[string]interface{}, len(t.Set)+2)
		for k, v := range t.Set {
			updates[k] = v
		}
		updates["approval_status"] = string(t.To)
		updates["updated_at"] = time.Now().UTC()

		res := tx.Model(&expenseDatamodel.Expense{}).
			Scopes(tenant.Scope(t.CompanyID)).
			Where("id IN ? AND approval_status = ? AND is_finalized = ?", ids, string(t.From), false).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}

		result.Count = res.RowsAffected
		result.Matched = expense.FromDataModelSlice(rows)
		if result.Count == 0 || t.Audit == nil {
			return nil
		}

		entries := make([]audit.Entry, 0, len(result.Matched))
		for _, e := range result.Matched {
			entries = append(entries, t.Audit(e))
		}
		return auditPostgres.NewWriter(tx).Append(ctx, entries...)
	})
	if err != nil {
		return expense.TransitionResult{}, err
	}
	return result, nil
}
