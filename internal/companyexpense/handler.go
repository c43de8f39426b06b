package companyexpense

import (
	"context"
	"net/http"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, p *auth.Principal, dto CreateCompanyExpenseDTO) (*CompanyExpense, error)
	List(ctx context.Context, p *auth.Principal) ([]*CompanyExpense, error)
	Occurrences(ctx context.Context, p *auth.Principal, from, to, displayCurrency string) (OccurrencesResponse, error)
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

func (h *Handler) CreateCompanyExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	var dto CreateCompanyExpenseDTO
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

func (h *Handler) ListCompanyExpenses(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	expenses, err := h.Service.List(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Expenses: expenses})
}

func (h *Handler) ListOccurrences(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	q := r.URL.Query()
	resp, err := h.Service.Occurrences(r.Context(), p, q.Get("from"), q.Get("to"), q.Get("currency"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
