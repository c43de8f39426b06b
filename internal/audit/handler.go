package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, p *auth.Principal, filter ListFilter) (Page, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		EntityType: EntityType(q.Get("entity_type")),
		EntityID:   q.Get("entity_id"),
		Action:     Action(q.Get("action")),
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Page = n
		}
	}
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.PageSize = n
		}
	}

	page, err := h.Service.List(r.Context(), p, filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}
