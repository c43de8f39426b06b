package audit

import (
	"context"
	"log/slog"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
)

type Reader interface {
	List(ctx context.Context, companyID string, filter ListFilter) (Page, error)
}

type Service struct {
	reader Reader
	logger *slog.Logger
}

func NewService(reader Reader, logger *slog.Logger) *Service {
	return &Service{reader: reader, logger: logger}
}

// List returns the caller's company log. Managers and admins only.
func (s *Service) List(ctx context.Context, p *auth.Principal, filter ListFilter) (Page, error) {
	if err := auth.Authorize(p, auth.CapViewAudit); err != nil {
		return Page{}, err
	}
	if filter.Action != "" && !filter.Action.Valid() {
		return Page{}, internal.NewValidationFieldError("action", "unknown audit action", internal.ErrCodeValidationFailed)
	}
	if filter.EntityType != "" && filter.EntityType != EntityTimeEntry && filter.EntityType != EntityExpense {
		return Page{}, internal.NewValidationFieldError("entity_type", "unknown entity type", internal.ErrCodeValidationFailed)
	}

	page, err := s.reader.List(ctx, p.CompanyID, filter)
	if err != nil {
		s.logger.Error("failed to list audit log", "error", err, "company_id", p.CompanyID)
		return Page{}, internal.NewInternalError("failed to list audit log", err)
	}
	return page, nil
}
