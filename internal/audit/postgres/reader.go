package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	auditDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/audit"
)

// Reader serves audit listings with plain SQL through sqlx.
type Reader struct {
	db *sqlx.DB
}

func NewReader(db *sqlx.DB) *Reader {
	return &Reader{db: db}
}

const selectAuditColumns = `SELECT id, company_id, entity_type, entity_id, action, from_status, to_status, actor_id, metadata, created_at FROM audit_logs`

// List returns one page of a company's entries, newest first. It fetches one
// extra row to know whether another page exists.
func (r *Reader) List(ctx context.Context, companyID string, filter audit.ListFilter) (audit.Page, error) {
	filter = filter.Normalize()

	where := []string{"company_id = ?"}
	args := []interface{}{companyID}
	if filter.EntityType != "" {
		where = append(where, "entity_type = ?")
		args = append(args, string(filter.EntityType))
	}
	if filter.EntityID != "" {
		where = append(where, "entity_id = ?")
		args = append(args, filter.EntityID)
	}
	if filter.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(filter.Action))
	}

	query := selectAuditColumns + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize+1, (filter.Page-1)*filter.PageSize)

	var rows []*auditDatamodel.AuditLog
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return audit.Page{}, fmt.Errorf("audit: list: %w", err)
	}

	page := audit.Page{Page: filter.Page, PageSize: filter.PageSize, Entries: []audit.Entry{}}
	if len(rows) > filter.PageSize {
		page.HasNext = true
		rows = rows[:filter.PageSize]
	}
	for _, row := range rows {
		e, err := FromDataModel(row)
		if err != nil {
			return audit.Page{}, err
		}
		page.Entries = append(page.Entries, e)
	}
	return page, nil
}
