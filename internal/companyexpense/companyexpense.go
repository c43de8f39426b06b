// Package companyexpense manages company overhead costs and materialises
// recurring ones into dated occurrences.
package companyexpense

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	companyexpenseDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/companyexpense"
)

type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Months is the step between two occurrences. Unknown frequencies recur
// monthly.
func (f Frequency) Months() int {
	switch f {
	case FrequencyQuarterly:
		return 3
	case FrequencyYearly:
		return 12
	default:
		return 1
	}
}

type CompanyExpense struct {
	ID          int64           `json:"id"`
	CompanyID   string          `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	Recurring   bool            `json:"recurring"`
	Frequency   Frequency       `json:"frequency,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Occurrence is one materialised instance of a template within a window.
type Occurrence struct {
	TemplateID  int64           `json:"template_id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	// Set only when a display currency was requested.
	DisplayAmount *float64 `json:"display_amount,omitempty"`
	Display       string   `json:"display,omitempty"`
}

func NewCompanyExpense(companyID, createdBy string, date time.Time, dto CreateCompanyExpenseDTO) *CompanyExpense {
	e := &CompanyExpense{
		CompanyID:   companyID,
		Amount:      dto.Amount,
		Currency:    strings.ToUpper(dto.Currency),
		Category:    strings.ToLower(strings.TrimSpace(dto.Category)),
		Description: strings.TrimSpace(dto.Description),
		Date:        date.UTC(),
		Recurring:   dto.Recurring,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	if e.Recurring {
		e.Frequency = Frequency(dto.Frequency)
		if e.Frequency == "" {
			e.Frequency = FrequencyMonthly
		}
	}
	return e
}

func ToDataModel(e *CompanyExpense) *companyexpenseDatamodel.CompanyExpense {
	return &companyexpenseDatamodel.CompanyExpense{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
		Recurring:   e.Recurring,
		Frequency:   string(e.Frequency),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func FromDataModel(e *companyexpenseDatamodel.CompanyExpense) *CompanyExpense {
	return &CompanyExpense{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.UTC(),
		Recurring:   e.Recurring,
		Frequency:   Frequency(e.Frequency),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}
