// Package expense handles employee expenses: draft → submitted → approved or
// rejected. Approval finalizes a row; finalized rows are never touched again.
package expense

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	expenseDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/expense"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

type Expense struct {
	ID               int64           `json:"id"`
	CompanyID        string          `json:"company_id"`
	UserID           string          `json:"user_id"`
	ProjectID        string          `json:"project_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	CurrencyAmount   decimal.Decimal `json:"currency_amount"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	ReceiptURL       *string         `json:"receipt_url,omitempty"`
	ExpenseDate      time.Time       `json:"expense_date"`
	ApprovalStatus   Status          `json:"approval_status"`
	SubmittedAt      *time.Time      `json:"submitted_at,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
	RejectedAt       *time.Time      `json:"rejected_at,omitempty"`
	RejectedBy       *string         `json:"rejected_by,omitempty"`
	RejectionReason  *string         `json:"rejection_reason,omitempty"`
	IsFinalized      bool            `json:"is_finalized"`
	FinalizedAt      *time.Time      `json:"finalized_at,omitempty"`
	ExternalSyncedAt *time.Time      `json:"external_synced_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ListFilter narrows a listing within one company. Empty fields match all.
type ListFilter struct {
	UserID string
	Status Status
}

// Transition is a conditional batch update over explicit ids. Finalized rows
// never match. OwnerID restricts the update to one user's rows when set.
type Transition struct {
	CompanyID string
	OwnerID   string
	IDs       []int64
	From      Status
	To        Status
	Set       map[string]interface{}
	// Audit builds the entry written for each moved row.
	Audit func(e *Expense) audit.Entry
}

type TransitionResult struct {
	Count   int64
	Matched []*Expense
}

// NewExpense builds a draft. amount is the submitted amount already converted
// into the company currency.
func NewExpense(companyID, userID string, date time.Time, amount decimal.Decimal, dto CreateExpenseDTO) *Expense {
	now := time.Now().UTC()
	return &Expense{
		CompanyID:      companyID,
		UserID:         userID,
		ProjectID:      strings.TrimSpace(dto.ProjectID),
		Amount:         amount,
		Currency:       strings.ToUpper(dto.Currency),
		CurrencyAmount: dto.Amount,
		Description:    strings.TrimSpace(dto.Description),
		Category:       strings.ToLower(strings.TrimSpace(dto.Category)),
		ReceiptURL:     dto.ReceiptURL,
		ExpenseDate:    date.UTC(),
		ApprovalStatus: StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		UserID:           e.UserID,
		ProjectID:        e.ProjectID,
		Amount:           e.Amount,
		Currency:         e.Currency,
		CurrencyAmount:   e.CurrencyAmount,
		Description:      e.Description,
		Category:         e.Category,
		ReceiptURL:       e.ReceiptURL,
		ExpenseDate:      e.ExpenseDate,
		ApprovalStatus:   string(e.ApprovalStatus),
		SubmittedAt:      e.SubmittedAt,
		ApprovedAt:       e.ApprovedAt,
		ApprovedBy:       e.ApprovedBy,
		RejectedAt:       e.RejectedAt,
		RejectedBy:       e.RejectedBy,
		RejectionReason:  e.RejectionReason,
		IsFinalized:      e.IsFinalized,
		FinalizedAt:      e.FinalizedAt,
		ExternalSyncedAt: e.ExternalSyncedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		UserID:           e.UserID,
		ProjectID:        e.ProjectID,
		Amount:           e.Amount,
		Currency:         e.Currency,
		CurrencyAmount:   e.CurrencyAmount,
		Description:      e.Description,
		Category:         e.Category,
		ReceiptURL:       e.ReceiptURL,
		ExpenseDate:      e.ExpenseDate.UTC(),
		ApprovalStatus:   Status(e.ApprovalStatus),
		SubmittedAt:      e.SubmittedAt,
		ApprovedAt:       e.ApprovedAt,
		ApprovedBy:       e.ApprovedBy,
		RejectedAt:       e.RejectedAt,
		RejectedBy:       e.RejectedBy,
		RejectionReason:  e.RejectionReason,
		IsFinalized:      e.IsFinalized,
		FinalizedAt:      e.FinalizedAt,
		ExternalSyncedAt: e.ExternalSyncedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
