package category

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/common/validation"
)

type RepositoryAPI interface {
	ListActive(ctx context.Context, companyID string) ([]*Category, error)
	GetByName(ctx context.Context, companyID, name string) (*Category, error)
	Create(ctx context.Context, c *Category) error
}

var ErrNotFound = errors.New("category not found")

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, p *auth.Principal) ([]*Category, error) {
	if err := auth.Authorize(p, auth.CapSubmitOwn); err != nil {
		return nil, err
	}
	categories, err := s.repo.ListActive(ctx, p.CompanyID)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err, "company_id", p.CompanyID)
		return nil, internal.NewInternalError("failed to list categories", err)
	}
	return categories, nil
}

func (s *Service) Create(ctx context.Context, p *auth.Principal, dto CreateCategoryDTO) (*Category, error) {
	if err := auth.Authorize(p, auth.CapManageCompanyExpenses); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	c := NewCategory(p.CompanyID, dto)
	if existing, err := s.repo.GetByName(ctx, p.CompanyID, c.Name); err == nil && existing != nil {
		return nil, internal.NewConflictError("category already exists", internal.ErrCodeInvalidCategory)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create category", "error", err, "company_id", p.CompanyID, "name", c.Name)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "company_id", p.CompanyID, "category_id", c.ID, "name", c.Name)
	return c, nil
}

// Validate returns a validation error unless name is an active category of
// companyID.
func (s *Service) Validate(ctx context.Context, companyID, name string) error {
	c, err := s.repo.GetByName(ctx, companyID, NormalizeName(name))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.NewValidationFieldError("category", "unknown category", internal.ErrCodeInvalidCategory)
		}
		s.logger.Error("category lookup failed", "error", err, "company_id", companyID)
		return internal.NewInternalError("category lookup failed", err)
	}
	if !c.IsActive {
		return internal.NewValidationFieldError("category", "category is inactive", internal.ErrCodeInvalidCategory)
	}
	return nil
}
