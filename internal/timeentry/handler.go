package timeentry

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/common/validation"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, p *auth.Principal, dto CreateTimeEntryDTO) (*TimeEntry, error)
	List(ctx context.Context, p *auth.Principal, userID, weekStart string) ([]*TimeEntry, error)
	Delete(ctx context.Context, p *auth.Principal, id int64) error
	Submit(ctx context.Context, p *auth.Principal, ids []int64) (int64, error)
	ApproveDay(ctx context.Context, p *auth.Principal, userID, date string) (Result, error)
	RejectDay(ctx context.Context, p *auth.Principal, userID, date, reason string) (Result, error)
	Lock(ctx context.Context, p *auth.Principal, userID, weekStart string) (Result, error)
	Reopen(ctx context.Context, p *auth.Principal, userID, weekStart, reason string) (Result, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var dto CreateTimeEntryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	entry, err := h.Service.Create(r.Context(), p, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	entries, err := h.Service.List(r.Context(), p, q.Get("user_id"), q.Get("week"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Entries: entries})
}

func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid time entry ID")
		return
	}

	if err := h.Service.Delete(r.Context(), p, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SubmitTimeEntries(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var dto SubmitDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	count, err := h.Service.Submit(r.Context(), p, dto.IDs)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

func (h *Handler) ApproveDay(w http.ResponseWriter, r *http.Request) {
	h.day(w, r, func(ctx context.Context, p *auth.Principal, dto DayDTO) (Result, error) {
		return h.Service.ApproveDay(ctx, p, dto.UserID, dto.Date)
	})
}

func (h *Handler) RejectDay(w http.ResponseWriter, r *http.Request) {
	h.day(w, r, func(ctx context.Context, p *auth.Principal, dto DayDTO) (Result, error) {
		return h.Service.RejectDay(ctx, p, dto.UserID, dto.Date, dto.Reason)
	})
}

func (h *Handler) LockWeek(w http.ResponseWriter, r *http.Request) {
	h.week(w, r, func(ctx context.Context, p *auth.Principal, dto WeekDTO) (Result, error) {
		return h.Service.Lock(ctx, p, dto.UserID, dto.WeekStart)
	})
}

func (h *Handler) ReopenWeek(w http.ResponseWriter, r *http.Request) {
	h.week(w, r, func(ctx context.Context, p *auth.Principal, dto WeekDTO) (Result, error) {
		return h.Service.Reopen(ctx, p, dto.UserID, dto.WeekStart, dto.Reason)
	})
}

func (h *Handler) day(w http.ResponseWriter, r *http.Request, op func(context.Context, *auth.Principal, DayDTO) (Result, error)) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var dto DayDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if err := validation.Struct(dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.respond(w, r)(op(r.Context(), p, dto))
}

func (h *Handler) week(w http.ResponseWriter, r *http.Request, op func(context.Context, *auth.Principal, WeekDTO) (Result, error)) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var dto WeekDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if err := validation.Struct(dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.respond(w, r)(op(r.Context(), p, dto))
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request) func(Result, error) {
	return func(res Result, err error) {
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, res)
	}
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return nil, false
	}
	return p, true
}
