package auth

import (
	"log/slog"
	"net/http"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
	"github.com/mariustrier/TimeTrack-sub004/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Verifier TokenVerifier
}

func NewHandler(verifier TokenVerifier, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Verifier:    verifier,
	}
}

// AuthMiddleware verifies the bearer token and stores the Principal in the
// request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, r, internal.ErrMissingToken)
			return
		}

		p, err := h.Verifier.Verify(token)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := WithPrincipal(r.Context(), p)
		ctx = logger.With(ctx, "user_id", p.UserID, "company_id", p.CompanyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require rejects requests whose principal lacks c.
func (h *Handler) Require(c Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFromContext(r.Context())
			if err := Authorize(p, c); err != nil {
				logger.From(r.Context()).Warn("access denied", "capability", c)
				h.HandleServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
