package expense

import "github.com/shopspring/decimal"

// CreateExpenseDTO is the payload for creating an expense. Amount is in
// Currency and is converted into the company currency on create.
type CreateExpenseDTO struct {
	ProjectID   string          `json:"project_id" validate:"max=64"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency    string          `json:"currency" validate:"required,currency"`
	Description string          `json:"description" validate:"required,min=1,max=500"`
	Category    string          `json:"category" validate:"required"`
	ExpenseDate string          `json:"expense_date" validate:"required,isodate"`
	ReceiptURL  *string         `json:"receipt_url,omitempty" validate:"omitempty,url"`
}

// IDsDTO carries the ids of a batch submit, approve or reject.
type IDsDTO struct {
	IDs    []int64 `json:"ids"`
	Reason string  `json:"reason,omitempty"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ListResponse struct {
	Expenses []*Expense `json:"expenses"`
}
