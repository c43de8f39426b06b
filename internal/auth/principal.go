package auth

import (
	"context"

	"github.com/mariustrier/TimeTrack-sub004/internal"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      Role   `json:"role"`
	Email     string `json:"email,omitempty"`
}

func (p *Principal) Can(c Capability) bool {
	return p != nil && p.Role.Can(c)
}

type ctxKey string

const principalKey ctxKey = "principal"

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// Authorize returns nil when p is present and holds c.
func Authorize(p *Principal, c Capability) error {
	if p == nil || p.UserID == "" || p.CompanyID == "" {
		return internal.NewUnauthorizedError("authentication required", internal.ErrCodeMissingToken)
	}
	if !p.Role.Can(c) {
		return internal.ErrUnauthorizedAccess.WithDetails(map[string]string{
			"role":       string(p.Role),
			"capability": string(c),
		})
	}
	return nil
}
