package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/httprate"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/category"
	"github.com/mariustrier/TimeTrack-sub004/internal/companyexpense"
	"github.com/mariustrier/TimeTrack-sub004/internal/currency"
	"github.com/mariustrier/TimeTrack-sub004/internal/expense"
	"github.com/mariustrier/TimeTrack-sub004/internal/ratelimit"
	"github.com/mariustrier/TimeTrack-sub004/internal/timeentry"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport/middleware"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport/swagger"
	"github.com/mariustrier/TimeTrack-sub004/internal/user"
)

// Handlers groups everything the API router mounts. Nil handlers leave their
// routes unregistered.
type Handlers struct {
	Health         *HealthHandler
	Auth           *auth.Handler
	User           *user.Handler
	Category       *category.Handler
	TimeEntry      *timeentry.Handler
	Expense        *expense.Handler
	CompanyExpense *companyexpense.Handler
	Currency       *currency.Handler
	Audit          *audit.Handler
}

// RouterConfig carries the HTTP settings the router applies.
type RouterConfig struct {
	Server    internal.ServerConfig
	RateLimit internal.RateLimitConfig
	// Limiter throttles the approval routes per principal.
	Limiter ratelimit.Limiter
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, cfg RouterConfig, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.SecureHeaders(cfg.Server.IsDevelopment))
	if cfg.RateLimit.PerIPPerMinute > 0 {
		router.Use(httprate.Limit(cfg.RateLimit.PerIPPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}

	router.Get(swagger.DocURL, func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	throttle := func(next http.Handler) http.Handler { return next }
	if cfg.Limiter != nil && cfg.RateLimit.MaxRequests > 0 {
		throttle = ratelimit.Limit(cfg.Limiter, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, logger)
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Currency != nil {
			r.Get("/currency/convert", h.Currency.Convert)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Category != nil {
				pr.Get("/categories", h.Category.GetCategories)
				pr.Post("/categories", h.Category.CreateCategory)
			}

			if h.TimeEntry != nil {
				pr.Route("/time-entries", func(tr chi.Router) {
					tr.Post("/", h.TimeEntry.CreateTimeEntry)
					tr.Get("/", h.TimeEntry.ListTimeEntries)
					tr.Delete("/{id}", h.TimeEntry.DeleteTimeEntry)
					tr.With(throttle).Post("/submit", h.TimeEntry.SubmitTimeEntries)
				})

				pr.Route("/approvals", func(ar chi.Router) {
					ar.Use(throttle)
					ar.Group(func(dr chi.Router) {
						dr.Use(h.Auth.Require(auth.CapApproveTime))
						dr.Post("/day/approve", h.TimeEntry.ApproveDay)
						dr.Post("/day/reject", h.TimeEntry.RejectDay)
					})
					ar.Group(func(wr chi.Router) {
						wr.Use(h.Auth.Require(auth.CapLockTime))
						wr.Post("/week/lock", h.TimeEntry.LockWeek)
						wr.Post("/week/reopen", h.TimeEntry.ReopenWeek)
					})
				})
			}

			if h.Expense != nil {
				pr.Route("/expenses", func(er chi.Router) {
					er.Post("/", h.Expense.CreateExpense)
					er.Get("/", h.Expense.ListExpenses)
					er.With(throttle).Post("/submit", h.Expense.SubmitExpenses)

					er.Group(func(mr chi.Router) {
						mr.Use(throttle)
						mr.Use(h.Auth.Require(auth.CapApproveExpenses))
						mr.Post("/approve", h.Expense.ApproveExpenses)
						mr.Post("/reject", h.Expense.RejectExpenses)
					})
				})
			}

			if h.CompanyExpense != nil {
				pr.Route("/company-expenses", func(cr chi.Router) {
					cr.Get("/", h.CompanyExpense.ListCompanyExpenses)
					cr.Get("/occurrences", h.CompanyExpense.ListOccurrences)
					cr.Post("/", h.CompanyExpense.CreateCompanyExpense)
				})
			}

			if h.Audit != nil {
				pr.Get("/audit-logs", h.Audit.ListAuditLogs)
			}
		})
	})
}
