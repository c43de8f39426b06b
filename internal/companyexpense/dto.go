package companyexpense

import "github.com/shopspring/decimal"

// CreateCompanyExpenseDTO creates a one-off or recurring company cost.
type CreateCompanyExpenseDTO struct {
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency    string          `json:"currency" validate:"required,currency"`
	Category    string          `json:"category" validate:"required,max=64"`
	Description string          `json:"description" validate:"max=500"`
	Date        string          `json:"date" validate:"required,isodate"`
	Recurring   bool            `json:"recurring"`
	Frequency   string          `json:"frequency" validate:"omitempty,oneof=monthly quarterly yearly"`
}

type ListResponse struct {
	Expenses []*CompanyExpense `json:"expenses"`
}

type OccurrencesResponse struct {
	From         string       `json:"from"`
	To           string       `json:"to"`
	Currency     string       `json:"currency,omitempty"`
	Occurrences  []Occurrence `json:"occurrences"`
	Total        *float64     `json:"total,omitempty"`
	TotalDisplay string       `json:"total_display,omitempty"`
}
