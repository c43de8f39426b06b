package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	auditPostgres "github.com/mariustrier/TimeTrack-sub004/internal/audit/postgres"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/database"
	timeentryDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/timeentry"
	"github.com/mariustrier/TimeTrack-sub004/internal/tenant"
	"github.com/mariustrier/TimeTrack-sub004/internal/timeentry"
)

// TimeEntryRepository implements timeentry.Repository using GORM.
type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Create(ctx context.Context, e *timeentry.TimeEntry) error {
	row := timeentry.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	e.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *TimeEntryRepository) List(ctx context.Context, companyID string, f timeentry.ListFilter) ([]*timeentry.TimeEntry, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ?", f.UserID)
	if f.Window != nil {
		q = q.Scopes(window(f.Window.Start, f.Window.End))
	}

	var rows []*timeentryDatamodel.TimeEntry
	if err := q.Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return timeentry.FromDataModelSlice(rows), nil
}

func (r *TimeEntryRepository) DeleteDraft(ctx context.Context, companyID, userID string, id int64) error {
	return database.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var row timeentryDatamodel.TimeEntry
		err := database.ForUpdate(tx).
			Scopes(tenant.Scope(companyID)).
			Where("id = ? AND user_id = ?", id, userID).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return timeentry.ErrNotFound
			}
			return err
		}
		if !timeentry.FromDataModel(&row).IsDraft() {
			return timeentry.ErrNotDraft
		}
		return tx.Delete(&row).Error
	})
}

// Transition locks the candidate rows, moves those still in a From status and
// appends the audit entries, all in one transaction. Count is the number of
// rows the update changed.
func (r *TimeEntryRepository) Transition(ctx context.Context, t timeentry.Transition) (timeentry.TransitionResult, error) {
	var result timeentry.TransitionResult
	from := timeentry.StatusStrings(t.From)

	err := database.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		q := database.ForUpdate(tx).
			Scopes(tenant.Scope(t.CompanyID)).
			Where("user_id = ?", t.UserID).
			Where("approval_status IN ?", from)
		if len(t.IDs) > 0 {
			q = q.Where("id IN ?", t.IDs)
		}
		if t.Window != nil {
			q = q.Scopes(window(t.Window.Start, t.Window.End))
		}

		var rows []*timeentryDatamodel.TimeEntry
		if err := q.Order("date ASC, id ASC").Find(&rows).Error; err != nil {
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

		res := tx.Model(&timeentryDatamodel.TimeEntry{}).
			Scopes(tenant.Scope(t.CompanyID)).
			Where("id IN ? AND approval_status IN ?", ids, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}

		result.Count = res.RowsAffected
		result.Matched = timeentry.FromDataModelSlice(rows)
		if result.Count == 0 || t.Audit == nil {
			return nil
		}
		return auditPostgres.NewWriter(tx).Append(ctx, t.Audit(result.Matched, result.Count)...)
	})
	if err != nil {
		return timeentry.TransitionResult{}, err
	}
	return result, nil
}

// window matches rows dated inside [start, end]; end is the last instant of
// its day, so the upper bound is kept half-open.
func window(start, end time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("date >= ? AND date < ?", start.UTC(), end.UTC().Add(time.Nanosecond))
	}
}
