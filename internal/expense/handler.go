package expense

import (
	"context"
	"net/http"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, p *auth.Principal, dto CreateExpenseDTO) (*Expense, error)
	List(ctx context.Context, p *auth.Principal, status string) ([]*Expense, error)
	Submit(ctx context.Context, p *auth.Principal, ids []int64) (int64, error)
	Approve(ctx context.Context, p *auth.Principal, ids []int64) (int64, error)
	Reject(ctx context.Context, p *auth.Principal, ids []int64, reason string) (int64, error)
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	var dto CreateExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	e, err := h.Service.Create(r.Context(), p, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	expenses, err := h.Service.List(r.Context(), p, r.URL.Query().Get("status"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Expenses: expenses})
}

func (h *Handler) SubmitExpenses(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, func(ctx context.Context, p *auth.Principal, dto IDsDTO) (int64, error) {
		return h.Service.Submit(ctx, p, dto.IDs)
	})
}

func (h *Handler) ApproveExpenses(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, func(ctx context.Context, p *auth.Principal, dto IDsDTO) (int64, error) {
		return h.Service.Approve(ctx, p, dto.IDs)
	})
}

func (h *Handler) RejectExpenses(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, func(ctx context.Context, p *auth.Principal, dto IDsDTO) (int64, error) {
		return h.Service.Reject(ctx, p, dto.IDs, dto.Reason)
	})
}

func (h *Handler) batch(w http.ResponseWriter, r *http.Request, op func(context.Context, *auth.Principal, IDsDTO) (int64, error)) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	var dto IDsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	count, err := op(r.Context(), p, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}
