package companyexpense

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/common/validation"
	"github.com/mariustrier/TimeTrack-sub004/internal/currency"
	"github.com/mariustrier/TimeTrack-sub004/internal/week"
)

type Repository interface {
	Create(ctx context.Context, e *CompanyExpense) error
	List(ctx context.Context, companyID string) ([]*CompanyExpense, error)
}

type CategoryValidator interface {
	Validate(ctx context.Context, companyID, name string) error
}

type Service struct {
	repo       Repository
	categories CategoryValidator
	rates      currency.Table
	language   string
	logger     *slog.Logger
}

func NewService(repo Repository, categories CategoryValidator, rates currency.Table, language string, logger *slog.Logger) *Service {
	if rates == nil {
		rates = currency.DefaultTable()
	}
	return &Service{
		repo:       repo,
		categories: categories,
		rates:      rates,
		language:   language,
		logger:     logger,
	}
}

func (s *Service) Create(ctx context.Context, p *auth.Principal, dto CreateCompanyExpenseDTO) (*CompanyExpense, error) {
	if err := auth.Authorize(p, auth.CapManageCompanyExpenses); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	date, err := week.ParseDate(dto.Date)
	if err != nil {
		return nil, internal.ErrInvalidDate.WithCause(err)
	}
	if err := s.categories.Validate(ctx, p.CompanyID, dto.Category); err != nil {
		return nil, err
	}

	e := NewCompanyExpense(p.CompanyID, p.UserID, date, dto)
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create company expense", "error", err, "company_id", p.CompanyID)
		return nil, internal.NewInternalError("failed to create company expense", err)
	}

	s.logger.Info("company expense created",
		"company_expense_id", e.ID,
		"company_id", p.CompanyID,
		"amount", e.Amount.String(),
		"currency", e.Currency,
		"recurring", e.Recurring,
		"frequency", e.Frequency)
	return e, nil
}

func (s *Service) List(ctx context.Context, p *auth.Principal) ([]*CompanyExpense, error) {
	if err := auth.Authorize(p, auth.CapViewCompanyExpenses); err != nil {
		return nil, err
	}
	expenses, err := s.repo.List(ctx, p.CompanyID)
	if err != nil {
		s.logger.Error("failed to list company expenses", "error", err, "company_id", p.CompanyID)
		return nil, internal.NewInternalError("failed to list company expenses", err)
	}
	return expenses, nil
}

// Occurrences expands the company's templates over [from, to]. When
// displayCurrency is set every occurrence is also converted, smart-rounded and
// formatted as a budget figure in that currency.
func (s *Service) Occurrences(ctx context.Context, p *auth.Principal, from, to, displayCurrency string) (OccurrencesResponse, error) {
	if err := auth.Authorize(p, auth.CapViewCompanyExpenses); err != nil {
		return OccurrencesResponse{}, err
	}
	start, err := week.ParseDate(from)
	if err != nil {
		return OccurrencesResponse{}, internal.ErrInvalidDate.WithCause(err)
	}
	end, err := week.ParseDate(to)
	if err != nil {
		return OccurrencesResponse{}, internal.ErrInvalidDate.WithCause(err)
	}
	if end.Before(start) {
		return OccurrencesResponse{}, internal.NewValidationError("to must not be before from", internal.ErrCodeInvalidRange)
	}
	displayCurrency = strings.ToUpper(strings.TrimSpace(displayCurrency))
	if displayCurrency != "" && !s.rates.Known(displayCurrency) {
		return OccurrencesResponse{}, internal.NewValidationFieldError("currency", "unsupported display currency", internal.ErrCodeInvalidCurrency)
	}

	templates, err := s.repo.List(ctx, p.CompanyID)
	if err != nil {
		s.logger.Error("failed to load company expenses", "error", err, "company_id", p.CompanyID)
		return OccurrencesResponse{}, internal.NewInternalError("failed to load company expenses", err)
	}

	resp := OccurrencesResponse{
		From:        from,
		To:          to,
		Currency:    displayCurrency,
		Occurrences: Expand(templates, start, end),
	}
	if displayCurrency == "" {
		return resp, nil
	}

	var total float64
	for i := range resp.Occurrences {
		occ := &resp.Occurrences[i]
		amount, _ := occ.Amount.Float64()
		converted := s.rates.ConvertAndRound(amount, occ.Currency, displayCurrency)
		occ.DisplayAmount = &converted
		occ.Display = currency.FormatBudget(converted, displayCurrency, s.language)
		total += converted
	}
	resp.Total = &total
	resp.TotalDisplay = currency.FormatBudget(total, displayCurrency, s.language)
	return resp, nil
}
