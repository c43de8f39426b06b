package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
)

type Repository interface {
	GetByID(ctx context.Context, companyID, userID string) (*User, error)
	Upsert(ctx context.Context, u *User) error
}

var ErrNotFound = errors.New("user not found")

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Current returns the membership record of the caller.
func (s *Service) Current(ctx context.Context, p *auth.Principal) (*User, error) {
	if p == nil {
		return nil, internal.ErrMissingToken
	}
	u, err := s.repo.GetByID(ctx, p.CompanyID, p.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound
		}
		s.logger.Error("failed to get user", "error", err, "user_id", p.UserID)
		return nil, internal.NewInternalError("failed to get user", err)
	}
	return u, nil
}

// EnsureMember returns ErrCrossTenant unless userID is an active member of
// companyID.
func (s *Service) EnsureMember(ctx context.Context, companyID, userID string) error {
	u, err := s.repo.GetByID(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrCrossTenant
		}
		s.logger.Error("membership lookup failed", "error", err, "user_id", userID, "company_id", companyID)
		return internal.NewInternalError("membership lookup failed", err)
	}
	if !u.IsActiveMemberOf(companyID) {
		s.logger.Warn("target user is not an active member", "user_id", userID, "company_id", companyID)
		return internal.ErrCrossTenant
	}
	return nil
}

// Register creates or refreshes a membership record.
func (s *Service) Register(ctx context.Context, u *User) error {
	if u.ID == "" || u.CompanyID == "" {
		return internal.NewValidationError("user id and company id are required", internal.ErrCodeValidationFailed)
	}
	if !u.Role.Valid() {
		return internal.NewValidationFieldError("role", "unknown role", internal.ErrCodeValidationFailed)
	}
	if err := s.repo.Upsert(ctx, u); err != nil {
		s.logger.Error("failed to register user", "error", err, "user_id", u.ID)
		return internal.NewInternalError("failed to register user", err)
	}
	return nil
}
