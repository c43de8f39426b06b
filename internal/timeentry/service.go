package timeentry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/common/validation"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/events"
	"github.com/mariustrier/TimeTrack-sub004/internal/week"
)

type Repository interface {
	Create(ctx context.Context, e *TimeEntry) error
	List(ctx context.Context, companyID string, f ListFilter) ([]*TimeEntry, error)
	DeleteDraft(ctx context.Context, companyID, userID string, id int64) error
	Transition(ctx context.Context, t Transition) (TransitionResult, error)
}

// MembershipChecker verifies that a target user belongs to the caller's
// company before any row of theirs is touched.
type MembershipChecker interface {
	EnsureMember(ctx context.Context, companyID, userID string) error
}

var (
	ErrNotFound = errors.New("time entry not found")
	ErrNotDraft = errors.New("time entry is not a draft")
)

type Service struct {
	repo      Repository
	members   MembershipChecker
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, members MembershipChecker, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		members:   members,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, p *auth.Principal, dto CreateTimeEntryDTO) (*TimeEntry, error) {
	if err := auth.Authorize(p, auth.CapSubmitOwn); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	date, err := week.ParseDate(dto.Date)
	if err != nil {
		return nil, internal.ErrInvalidDate.WithCause(err)
	}

	entry := NewTimeEntry(p.CompanyID, p.UserID, date, dto)
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to create time entry", "error", err, "user_id", p.UserID)
		return nil, internal.NewInternalError("failed to create time entry", err)
	}

	s.logger.Info("time entry created",
		"entry_id", entry.ID,
		"user_id", p.UserID,
		"date", dto.Date,
		"hours", entry.Hours)
	return entry, nil
}

// List returns the entries of userID, or of the caller when userID is empty.
// weekStart narrows the result to one week.
func (s *Service) List(ctx context.Context, p *auth.Principal, userID, weekStart string) ([]*TimeEntry, error) {
	if err := auth.Authorize(p, auth.CapSubmitOwn); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = p.UserID
	}
	if userID != p.UserID {
		if err := auth.Authorize(p, auth.CapViewTeam); err != nil {
			return nil, err
		}
		if err := s.members.EnsureMember(ctx, p.CompanyID, userID); err != nil {
			return nil, err
		}
	}

	filter := ListFilter{UserID: userID}
	if weekStart != "" {
		r, err := week.BoundsFromString(weekStart)
		if err != nil {
			return nil, internal.ErrInvalidDate.WithCause(err)
		}
		filter.Window = &r
	}

	entries, err := s.repo.List(ctx, p.CompanyID, filter)
	if err != nil {
		s.logger.Error("failed to list time entries", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list time entries", err)
	}
	return entries, nil
}

// Delete soft-deletes one of the caller's drafts.
func (s *Service) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	if err := auth.Authorize(p, auth.CapSubmitOwn); err != nil {
		return err
	}

	err := s.repo.DeleteDraft(ctx, p.CompanyID, p.UserID, id)
	switch {
	case err == nil:
		s.logger.Info("time entry deleted", "entry_id", id, "user_id", p.UserID)
		return nil
	case errors.Is(err, ErrNotFound):
		return internal.ErrEntryNotFound
	case errors.Is(err, ErrNotDraft):
		return internal.ErrCannotModifyEntry
	default:
		s.logger.Error("failed to delete time entry", "error", err, "entry_id", id)
		return internal.NewInternalError("failed to delete time entry", err)
	}
}

// Submit moves the caller's own drafts among ids to submitted. Ids the caller
// does not own, or that are not drafts, are skipped silently.
func (s *Service) Submit(ctx context.Context, p *auth.Principal, ids []int64) (int64, error) {
	if err := auth.Authorize(p, auth.CapSubmitOwn); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, internal.ErrEmptyIDs
	}

	now := s.now()
	res, err := s.transition(ctx, p, audit.ActionSubmit, p.UserID, Transition{
		CompanyID: p.CompanyID,
		UserID:    p.UserID,
		IDs:       ids,
		From:      []Status{StatusDraft},
		To:        StatusSubmitted,
		Set: map[string]interface{}{
			"submitted_at": now,
			"submitted_by": p.UserID,
		},
		Audit: func(matched []*TimeEntry, count int64) []audit.Entry {
			entryIDs, _ := Summarize(matched)
			return []audit.Entry{audit.NewEntry(p.CompanyID, audit.EntityTimeEntry,
				audit.SubmissionKey(p.UserID), p.UserID,
				string(StatusDraft), string(StatusSubmitted),
				audit.Submission{EntryCount: count, EntryIDs: entryIDs})}
		},
	})
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (s *Service) ApproveDay(ctx context.Context, p *auth.Principal, userID, date string) (Result, error) {
	if err := auth.Authorize(p, auth.CapApproveTime); err != nil {
		return Result{}, err
	}
	day, err := s.dayWindow(ctx, p, userID, date)
	if err != nil {
		return Result{}, err
	}

	now := s.now()
	res, err := s.transition(ctx, p, audit.ActionApproveDay, userID, Transition{
		CompanyID: p.CompanyID,
		UserID:    userID,
		Window:    &day,
		From:      []Status{StatusSubmitted},
		To:        StatusApproved,
		Set: map[string]interface{}{
			"approved_at": now,
			"approved_by": p.UserID,
			"rejected_at": nil,
			"rejected_by": nil,
		},
		Audit: func(matched []*TimeEntry, count int64) []audit.Entry {
			entryIDs, hours := Summarize(matched)
			return []audit.Entry{audit.NewEntry(p.CompanyID, audit.EntityTimeEntry,
				audit.DayKey(userID, date), p.UserID,
				string(StatusSubmitted), string(StatusApproved),
				audit.DayApproval{Date: date, EntryCount: count, TotalHours: hours, EntryIDs: entryIDs})}
		},
	})
	return s.result(res, err)
}

func (s *Service) RejectDay(ctx context.Context, p *auth.Principal, userID, date, reason string) (Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Result{}, internal.ErrMissingReason
	}
	if err := auth.Authorize(p, auth.CapApproveTime); err != nil {
		return Result{}, err
	}
	day, err := s.dayWindow(ctx, p, userID, date)
	if err != nil {
		return Result{}, err
	}

	now := s.now()
	res, err := s.transition(ctx, p, audit.ActionRejectDay, userID, Transition{
		CompanyID: p.CompanyID,
		UserID:    userID,
		Window:    &day,
		From:      []Status{StatusSubmitted},
		To:        StatusDraft,
		Set: map[string]interface{}{
			"rejected_at":  now,
			"rejected_by":  p.UserID,
			"submitted_at": nil,
			"submitted_by": nil,
		},
		Audit: func(matched []*TimeEntry, count int64) []audit.Entry {
			entryIDs, hours := Summarize(matched)
			return []audit.Entry{audit.NewEntry(p.CompanyID, audit.EntityTimeEntry,
				audit.DayKey(userID, date), p.UserID,
				string(StatusSubmitted), string(StatusDraft),
				audit.DayRejection{Date: date, EntryCount: count, TotalHours: hours, EntryIDs: entryIDs, Reason: reason})}
		},
	})
	return s.result(res, err)
}

func (s *Service) Lock(ctx context.Context, p *auth.Principal, userID, weekStart string) (Result, error) {
	if err := auth.Authorize(p, auth.CapLockTime); err != nil {
		return Result{}, err
	}
	window, weekID, err := s.weekWindow(ctx, p, userID, weekStart)
	if err != nil {
		return Result{}, err
	}

	now := s.now()
	res, err := s.transition(ctx, p, audit.ActionLockWeek, userID, Transition{
		CompanyID: p.CompanyID,
		UserID:    userID,
		Window:    &window,
		From:      []Status{StatusApproved},
		To:        StatusLocked,
		Set: map[string]interface{}{
			"locked_at": now,
			"locked_by": p.UserID,
		},
		Audit: func(matched []*TimeEntry, count int64) []audit.Entry {
			entryIDs, hours := Summarize(matched)
			return []audit.Entry{audit.NewEntry(p.CompanyID, audit.EntityTimeEntry,
				audit.WeekKey(userID, weekID), p.UserID,
				string(StatusApproved), string(StatusLocked),
				audit.WeekLock{WeekStart: weekID, EntryCount: count, TotalHours: hours, EntryIDs: entryIDs})}
		},
	})
	return s.result(res, err)
}

// Reopen sends approved or locked entries of a week back to draft and clears
// every approval stamp.
func (s *Service) Reopen(ctx context.Context, p *auth.Principal, userID, weekStart, reason string) (Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Result{}, internal.ErrMissingReason
	}
	if err := auth.Authorize(p, auth.CapLockTime); err != nil {
		return Result{}, err
	}
	window, weekID, err := s.weekWindow(ctx, p, userID, weekStart)
	if err != nil {
		return Result{}, err
	}

	res, err := s.transition(ctx, p, audit.ActionReopenWeek, userID, Transition{
		CompanyID: p.CompanyID,
		UserID:    userID,
		Window:    &window,
		From:      []Status{StatusApproved, StatusLocked},
		To:        StatusDraft,
		Set: map[string]interface{}{
			"submitted_at": nil,
			"submitted_by": nil,
			"approved_at":  nil,
			"approved_by":  nil,
			"rejected_at":  nil,
			"rejected_by":  nil,
			"locked_at":    nil,
			"locked_by":    nil,
		},
		Audit: func(matched []*TimeEntry, count int64) []audit.Entry {
			entryIDs, _ := Summarize(matched)
			// matched is ordered by date then id.
			previous := string(matched[0].ApprovalStatus)
			return []audit.Entry{audit.NewEntry(p.CompanyID, audit.EntityTimeEntry,
				audit.WeekKey(userID, weekID), p.UserID,
				previous, string(StatusDraft),
				audit.WeekReopen{WeekStart: weekID, EntryCount: count, EntryIDs: entryIDs, PreviousStatus: previous, Reason: reason})}
		},
	})
	return s.result(res, err)
}

func (s *Service) dayWindow(ctx context.Context, p *auth.Principal, userID, date string) (week.Range, error) {
	if err := s.checkTarget(ctx, p, userID); err != nil {
		return week.Range{}, err
	}
	d, err := week.ParseDate(date)
	if err != nil {
		return week.Range{}, internal.ErrInvalidDate.WithCause(err)
	}
	return week.Day(d), nil
}

func (s *Service) weekWindow(ctx context.Context, p *auth.Principal, userID, weekStart string) (week.Range, string, error) {
	if err := s.checkTarget(ctx, p, userID); err != nil {
		return week.Range{}, "", err
	}
	r, err := week.BoundsFromString(weekStart)
	if err != nil {
		return week.Range{}, "", internal.ErrInvalidDate.WithCause(err)
	}
	return r, r.Start.Format(week.DateLayout), nil
}

func (s *Service) checkTarget(ctx context.Context, p *auth.Principal, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return internal.NewValidationFieldError("user_id", "User Id is required", internal.ErrCodeValidationFailed)
	}
	return s.members.EnsureMember(ctx, p.CompanyID, userID)
}

func (s *Service) transition(ctx context.Context, p *auth.Principal, action audit.Action, targetUserID string, t Transition) (TransitionResult, error) {
	res, err := s.repo.Transition(ctx, t)
	if err != nil {
		s.logger.Error("time entry transition failed",
			"error", err,
			"action", action,
			"company_id", p.CompanyID,
			"target_user_id", targetUserID)
		return TransitionResult{}, internal.NewInternalError("failed to update time entries", err)
	}

	s.logger.Info("time entry transition applied",
		"action", action,
		"actor_id", p.UserID,
		"target_user_id", targetUserID,
		"count", res.Count)

	if res.Count > 0 && s.publisher != nil {
		ev := events.NewApprovalTransitionedEvent(p.CompanyID, string(audit.EntityTimeEntry), string(action), p.UserID, targetUserID, res.Count)
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn("failed to publish transition event", "error", err, "action", action)
		}
	}
	return res, nil
}

// result turns a committed batch into the caller's summary; zero rows is a
// client error for the admin operations.
func (s *Service) result(res TransitionResult, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	if res.Count == 0 {
		return Result{}, internal.ErrNoMatchingEntries
	}
	ids, hours := Summarize(res.Matched)
	return Result{Count: res.Count, EntryIDs: ids, TotalHours: hours}, nil
}
