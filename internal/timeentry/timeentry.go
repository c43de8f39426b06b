// Package timeentry owns time entries and their approval lifecycle:
// draft → submitted → approved → locked, with reject (submitted → draft) and
// reopen ({approved, locked} → draft).
package timeentry

import (
	"strings"
	"time"

	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	timeentryDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/timeentry"
	"github.com/mariustrier/TimeTrack-sub004/internal/week"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusLocked    Status = "locked"
)

const (
	BillingBillable    = "billable"
	BillingNonBillable = "non_billable"
	BillingInvoiced    = "invoiced"
)

type TimeEntry struct {
	ID               int64      `json:"id"`
	CompanyID        string     `json:"company_id"`
	UserID           string     `json:"user_id"`
	ProjectID        string     `json:"project_id"`
	Date             time.Time  `json:"date"`
	Hours            float64    `json:"hours"`
	Comment          string     `json:"comment,omitempty"`
	BillingStatus    string     `json:"billing_status"`
	ApprovalStatus   Status     `json:"approval_status"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	SubmittedBy      *string    `json:"submitted_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ApprovedBy       *string    `json:"approved_by,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	RejectedBy       *string    `json:"rejected_by,omitempty"`
	LockedAt         *time.Time `json:"locked_at,omitempty"`
	LockedBy         *string    `json:"locked_by,omitempty"`
	ExternalSyncedAt *time.Time `json:"external_synced_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (e *TimeEntry) IsDraft() bool {
	return e.ApprovalStatus == StatusDraft
}

// Result summarises a batch transition.
type Result struct {
	Count      int64   `json:"count"`
	EntryIDs   []int64 `json:"entry_ids"`
	TotalHours float64 `json:"total_hours"`
}

// ListFilter selects one user's entries, optionally within a window.
type ListFilter struct {
	UserID string
	Window *week.Range
}

// Transition describes one conditional batch update. Only rows of CompanyID
// owned by UserID whose status is in From are moved; IDs and Window narrow the
// candidates further when set.
type Transition struct {
	CompanyID string
	UserID    string
	IDs       []int64
	Window    *week.Range
	From      []Status
	To        Status
	// Set lists the stamp columns written along with the status. A nil value
	// clears the column.
	Set map[string]interface{}
	// Audit builds the entries appended in the same transaction. It is only
	// called when at least one row changed.
	Audit func(matched []*TimeEntry, count int64) []audit.Entry
}

type TransitionResult struct {
	Count   int64
	Matched []*TimeEntry
}

func NewTimeEntry(companyID, userID string, date time.Time, dto CreateTimeEntryDTO) *TimeEntry {
	billing := dto.BillingStatus
	if billing == "" {
		billing = BillingBillable
	}
	now := time.Now().UTC()
	return &TimeEntry{
		CompanyID:      companyID,
		UserID:         userID,
		ProjectID:      strings.TrimSpace(dto.ProjectID),
		Date:           date.UTC(),
		Hours:          dto.Hours,
		Comment:        strings.TrimSpace(dto.Comment),
		BillingStatus:  billing,
		ApprovalStatus: StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Summarize returns the ids and the summed hours of entries.
func Summarize(entries []*TimeEntry) ([]int64, float64) {
	ids := make([]int64, 0, len(entries))
	var hours float64
	for _, e := range entries {
		ids = append(ids, e.ID)
		hours += e.Hours
	}
	return ids, hours
}

func StatusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func ToDataModel(e *TimeEntry) *timeentryDatamodel.TimeEntry {
	return &timeentryDatamodel.TimeEntry{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		UserID:           e.UserID,
		ProjectID:        e.ProjectID,
		Date:             e.Date,
		Hours:            e.Hours,
		Comment:          e.Comment,
		BillingStatus:    e.BillingStatus,
		ApprovalStatus:   string(e.ApprovalStatus),
		SubmittedAt:      e.SubmittedAt,
		SubmittedBy:      e.SubmittedBy,
		ApprovedAt:       e.ApprovedAt,
		ApprovedBy:       e.ApprovedBy,
		RejectedAt:       e.RejectedAt,
		RejectedBy:       e.RejectedBy,
		LockedAt:         e.LockedAt,
		LockedBy:         e.LockedBy,
		ExternalSyncedAt: e.ExternalSyncedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModel(e *timeentryDatamodel.TimeEntry) *TimeEntry {
	return &TimeEntry{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		UserID:           e.UserID,
		ProjectID:        e.ProjectID,
		Date:             e.Date.UTC(),
		Hours:            e.Hours,
		Comment:          e.Comment,
		BillingStatus:    e.BillingStatus,
		ApprovalStatus:   Status(e.ApprovalStatus),
		SubmittedAt:      e.SubmittedAt,
		SubmittedBy:      e.SubmittedBy,
		ApprovedAt:       e.ApprovedAt,
		ApprovedBy:       e.ApprovedBy,
		RejectedAt:       e.RejectedAt,
		RejectedBy:       e.RejectedBy,
		LockedAt:         e.LockedAt,
		LockedBy:         e.LockedBy,
		ExternalSyncedAt: e.ExternalSyncedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*timeentryDatamodel.TimeEntry) []*TimeEntry {
	result := make([]*TimeEntry, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
