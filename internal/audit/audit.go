// Package audit defines the append-only log of approval transitions and the
// typed metadata attached to each action.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityTimeEntry EntityType = "time_entry"
	EntityExpense   EntityType = "expense"
)

type Action string

const (
	ActionSubmit         Action = "SUBMIT"
	ActionApproveDay     Action = "APPROVE_DAY"
	ActionRejectDay      Action = "REJECT_DAY"
	ActionLockWeek       Action = "LOCK_WEEK"
	ActionReopenWeek     Action = "REOPEN_WEEK"
	ActionApproveExpense Action = "APPROVE_EXPENSE"
	ActionRejectExpense  Action = "REJECT_EXPENSE"
)

func (a Action) Valid() bool {
	switch a {
	case ActionSubmit, ActionApproveDay, ActionRejectDay, ActionLockWeek,
		ActionReopenWeek, ActionApproveExpense, ActionRejectExpense:
		return true
	}
	return false
}

// Entry is one row of the audit log.
type Entry struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"company_id"`
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Action     Action     `json:"action"`
	FromStatus string     `json:"from_status,omitempty"`
	ToStatus   string     `json:"to_status,omitempty"`
	ActorID    string     `json:"actor_id"`
	Metadata   Metadata   `json:"metadata,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewEntry fills in the id and timestamp.
func NewEntry(companyID string, entity EntityType, entityID string, actorID string, from, to string, md Metadata) Entry {
	e := Entry{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		EntityType: entity,
		EntityID:   entityID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Metadata:   md,
		CreatedAt:  time.Now().UTC(),
	}
	if md != nil {
		e.Action = md.Action()
	}
	return e
}

// DayKey is the entity id of a per-day batch operation.
func DayKey(userID, date string) string {
	return fmt.Sprintf("user:%s|day:%s", userID, date)
}

// WeekKey is the entity id of a per-week batch operation.
func WeekKey(userID, weekID string) string {
	return fmt.Sprintf("user:%s|week:%s", userID, weekID)
}

func SubmissionKey(userID string) string {
	return fmt.Sprintf("user:%s|submission", userID)
}

// Metadata is the action-specific payload of an entry. Each action has
// exactly one concrete type.
type Metadata interface {
	Action() Action
}

type Submission struct {
	EntryCount int64   `json:"entry_count"`
	EntryIDs   []int64 `json:"entry_ids"`
}

type DayApproval struct {
	Date       string  `json:"date"`
	EntryCount int64   `json:"entry_count"`
	TotalHours float64 `json:"total_hours"`
	EntryIDs   []int64 `json:"entry_ids"`
}

type DayRejection struct {
	Date       string  `json:"date"`
	EntryCount int64   `json:"entry_count"`
	TotalHours float64 `json:"total_hours"`
	EntryIDs   []int64 `json:"entry_ids"`
	Reason     string  `json:"reason"`
}

type WeekLock struct {
	WeekStart  string  `json:"week_start"`
	EntryCount int64   `json:"entry_count"`
	TotalHours float64 `json:"total_hours"`
	EntryIDs   []int64 `json:"entry_ids"`
}

type WeekReopen struct {
	WeekStart      string  `json:"week_start"`
	EntryCount     int64   `json:"entry_count"`
	EntryIDs       []int64 `json:"entry_ids"`
	PreviousStatus string  `json:"previous_status"`
	Reason         string  `json:"reason"`
}

type ExpenseApproval struct {
	Amount   string `json:"amount"`
	Category string `json:"category"`
	OwnerID  string `json:"owner_id"`
}

type ExpenseRejection struct {
	Amount   string `json:"amount"`
	Category string `json:"category"`
	OwnerID  string `json:"owner_id"`
	Reason   string `json:"reason,omitempty"`
}

func (Submission) Action() Action       { return ActionSubmit }
func (DayApproval) Action() Action      { return ActionApproveDay }
func (DayRejection) Action() Action     { return ActionRejectDay }
func (WeekLock) Action() Action         { return ActionLockWeek }
func (WeekReopen) Action() Action       { return ActionReopenWeek }
func (ExpenseApproval) Action() Action  { return ActionApproveExpense }
func (ExpenseRejection) Action() Action { return ActionRejectExpense }

// DecodeMetadata restores the concrete metadata type stored for action.
func DecodeMetadata(action Action, raw []byte) (Metadata, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch action {
	case ActionSubmit:
		return decodeAs[Submission](action, raw)
	case ActionApproveDay:
		return decodeAs[DayApproval](action, raw)
	case ActionRejectDay:
		return decodeAs[DayRejection](action, raw)
	case ActionLockWeek:
		return decodeAs[WeekLock](action, raw)
	case ActionReopenWeek:
		return decodeAs[WeekReopen](action, raw)
	case ActionApproveExpense:
		return decodeAs[ExpenseApproval](action, raw)
	case ActionRejectExpense:
		return decodeAs[ExpenseRejection](action, raw)
	default:
		return nil, fmt.Errorf("audit: unknown action %q", action)
	}
}

func decodeAs[T Metadata](action Action, raw []byte) (Metadata, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("audit: decode %s metadata: %w", action, err)
	}
	return v, nil
}

// ListFilter narrows a listing of entries within one company.
type ListFilter struct {
	EntityType EntityType
	EntityID   string
	Action     Action
	Page       int
	PageSize   int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps paging values.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

type Page struct {
	Entries  []Entry `json:"entries"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	HasNext  bool    `json:"has_next"`
}
