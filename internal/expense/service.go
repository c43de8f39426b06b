package expense

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/common/validation"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/events"
	"github.com/mariustrier/TimeTrack-sub004/internal/currency"
	"github.com/mariustrier/TimeTrack-sub004/internal/week"
)

// Repository interface defines the data access methods for expenses
type Repository interface {
	Create(ctx context.Context, e *Expense) error
	List(ctx context.Context, companyID string, f ListFilter) ([]*Expense, error)
	Transition(ctx context.Context, t Transition) (TransitionResult, error)
}

type CategoryValidator interface {
	Validate(ctx context.Context, companyID, name string) error
}

// Service handles expense business logic
type Service struct {
	repo            Repository
	categories      CategoryValidator
	publisher       events.Publisher
	rates           currency.Table
	companyCurrency string
	logger          *slog.Logger
}

func NewService(repo Repository, categories CategoryValidator, publisher events.Publisher, rates currency.Table, companyCurrency string, logger *slog.Logger) *Service {
	if rates == nil {
		rates = currency.DefaultTable()
	}
	if companyCurrency == "" {
		companyCurrency = currency.Reference
	}
	return &Service{
		repo:            repo,
		categories:      categories,
		publisher:       publisher,
		rates:           rates,
		companyCurrency: strings.ToUpper(companyCurrency),
		logger:          logger,
	}
}

// Create stores a draft, converting the submitted amount into the company
// currency.
func (s *Service) Create(ctx context.Context, p *auth.Principal, dto CreateExpenseDTO) (*Expense, error) {
	if err := auth.Authorize(p, auth.CapSubmitOwn); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		s.logger.Info("expense validation failed", "error", err, "user_id", p.UserID)
		return nil, err
	}
	date, err := week.ParseDate(dto.ExpenseDate)
	if err != nil {
		return nil, internal.ErrInvalidDate.WithCause(err)
	}
	if err := s.categories.Validate(ctx, p.CompanyID, dto.Category); err != nil {
		return nil, err
	}

	submitted, _ := dto.Amount.Float64()
	converted := decimal.NewFromFloat(s.rates.Convert(submitted, dto.Currency, s.companyCurrency)).Round(2)
	if strings.EqualFold(dto.Currency, s.companyCurrency) {
		converted = dto.Amount
	}

	e := NewExpense(p.CompanyID, p.UserID, date, converted, dto)
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", p.UserID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense created successfully",
		"expense_id", e.ID,
		"user_id", p.UserID,
		"amount", e.Amount.String(),
		"currency", e.Currency,
		"currency_amount", e.CurrencyAmount.String())
	return e, nil
}

// List returns the caller's own expenses, or every expense of the company for
// callers allowed to approve them.
func (s *Service) List(ctx context.Context, p *auth.Principal, status string) ([]*Expense, error) {
	if err := auth.Authorize(p, auth.CapSubmitOwn); err != nil {
		return nil, err
	}

	filter := ListFilter{Status: Status(status)}
	if !p.Can(auth.CapApproveExpenses) {
		filter.UserID = p.UserID
	}

	expenses, err := s.repo.List(ctx, p.CompanyID, filter)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", p.UserID)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return expenses, nil
}

// Submit moves the caller's own drafts among ids to submitted.
func (s *Service) Submit(ctx context.Context, p *auth.Principal, ids []int64) (int64, error) {
	if err := auth.Authorize(p, auth.CapSubmitOwn); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, internal.ErrEmptyIDs
	}

	return s.transition(ctx, p, audit.ActionSubmit, Transition{
		CompanyID: p.CompanyID,
		OwnerID:   p.UserID,
		IDs:       ids,
		From:      StatusDraft,
		To:        StatusSubmitted,
		Set: map[string]interface{}{
			"submitted_at": time.Now().UTC(),
		},
		Audit: func(e *Expense) audit.Entry {
			return audit.NewEntry(p.CompanyID, audit.EntityExpense, entityID(e), p.UserID,
				string(StatusDraft), string(StatusSubmitted),
				audit.Submission{EntryCount: 1, EntryIDs: []int64{e.ID}})
		},
	})
}

// Approve finalizes submitted expenses of the company. Rows in any other
// status are skipped; zero matches is not an error.
func (s *Service) Approve(ctx context.Context, p *auth.Principal, ids []int64) (int64, error) {
	if err := auth.Authorize(p, auth.CapApproveExpenses); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, internal.ErrEmptyIDs
	}

	now := time.Now().UTC()
	return s.transition(ctx, p, audit.ActionApproveExpense, Transition{
		CompanyID: p.CompanyID,
		IDs:       ids,
		From:      StatusSubmitted,
		To:        StatusApproved,
		Set: map[string]interface{}{
			"approved_at":  now,
			"approved_by":  p.UserID,
			"is_finalized": true,
			"finalized_at": now,
		},
		Audit: func(e *Expense) audit.Entry {
			return audit.NewEntry(p.CompanyID, audit.EntityExpense, entityID(e), p.UserID,
				string(StatusSubmitted), string(StatusApproved),
				audit.ExpenseApproval{Amount: e.Amount.String(), Category: e.Category, OwnerID: e.UserID})
		},
	})
}

// Reject marks submitted expenses as rejected. The reason is optional.
func (s *Service) Reject(ctx context.Context, p *auth.Principal, ids []int64, reason string) (int64, error) {
	if err := auth.Authorize(p, auth.CapApproveExpenses); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, internal.ErrEmptyIDs
	}

	reason = strings.TrimSpace(reason)
	var storedReason interface{}
	if reason != "" {
		storedReason = reason
	}

	return s.transition(ctx, p, audit.ActionRejectExpense, Transition{
		CompanyID: p.CompanyID,
		IDs:       ids,
		From:      StatusSubmitted,
		To:        StatusRejected,
		Set: map[string]interface{}{
			"rejected_at":      time.Now().UTC(),
			"rejected_by":      p.UserID,
			"rejection_reason": storedReason,
		},
		Audit: func(e *Expense) audit.Entry {
			return audit.NewEntry(p.CompanyID, audit.EntityExpense, entityID(e), p.UserID,
				string(StatusSubmitted), string(StatusRejected),
				audit.ExpenseRejection{Amount: e.Amount.String(), Category: e.Category, OwnerID: e.UserID, Reason: reason})
		},
	})
}

func (s *Service) transition(ctx context.Context, p *auth.Principal, action audit.Action, t Transition) (int64, error) {
	res, err := s.repo.Transition(ctx, t)
	if err != nil {
		s.logger.Error("expense transition failed",
			"error", err,
			"action", action,
			"company_id", p.CompanyID,
			"ids", t.IDs)
		return 0, internal.NewInternalError("failed to update expenses", err)
	}

	s.logger.Info("expense transition applied",
		"action", action,
		"actor_id", p.UserID,
		"requested", len(t.IDs),
		"count", res.Count)

	if res.Count > 0 && s.publisher != nil {
		ev := events.NewApprovalTransitionedEvent(p.CompanyID, string(audit.EntityExpense), string(action), p.UserID, t.OwnerID, res.Count)
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn("failed to publish transition event", "error", err, "action", action)
		}
	}
	return res.Count, nil
}

func entityID(e *Expense) string {
	return strconv.FormatInt(e.ID, 10)
}
