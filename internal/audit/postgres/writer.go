package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	auditDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/audit"
)

// Writer appends audit rows through whatever gorm handle it was built with,
// typically the transaction of the operation being audited.
type Writer struct {
	db *gorm.DB
}

func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

func (w *Writer) Append(ctx context.Context, entries ...audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]*auditDatamodel.AuditLog, 0, len(entries))
	for _, e := range entries {
		row, err := ToDataModel(e)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if err := w.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("audit: insert %d entries: %w", len(rows), err)
	}
	return nil
}

func ToDataModel(e audit.Entry) (*auditDatamodel.AuditLog, error) {
	if e.CompanyID == "" || e.EntityID == "" || !e.Action.Valid() {
		return nil, fmt.Errorf("audit: entry requires company, entity id and a known action")
	}

	row := &auditDatamodel.AuditLog{
		ID:         e.ID,
		CompanyID:  e.CompanyID,
		EntityType: string(e.EntityType),
		EntityID:   e.EntityID,
		Action:     string(e.Action),
		FromStatus: nullable(e.FromStatus),
		ToStatus:   nullable(e.ToStatus),
		ActorID:    e.ActorID,
		CreatedAt:  e.CreatedAt,
	}
	if e.Metadata != nil {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("audit: encode metadata: %w", err)
		}
		row.Metadata = raw
	}
	return row, nil
}

func FromDataModel(row *auditDatamodel.AuditLog) (audit.Entry, error) {
	e := audit.Entry{
		ID:         row.ID,
		CompanyID:  row.CompanyID,
		EntityType: audit.EntityType(row.EntityType),
		EntityID:   row.EntityID,
		Action:     audit.Action(row.Action),
		ActorID:    row.ActorID,
		CreatedAt:  row.CreatedAt,
	}
	if row.FromStatus != nil {
		e.FromStatus = *row.FromStatus
	}
	if row.ToStatus != nil {
		e.ToStatus = *row.ToStatus
	}
	md, err := audit.DecodeMetadata(e.Action, row.Metadata)
	if err != nil {
		return audit.Entry{}, err
	}
	e.Metadata = md
	return e, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
