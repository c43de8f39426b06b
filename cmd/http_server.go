package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	auditPostgres "github.com/mariustrier/TimeTrack-sub004/internal/audit/postgres"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/category"
	categoryPostgres "github.com/mariustrier/TimeTrack-sub004/internal/category/postgres"
	"github.com/mariustrier/TimeTrack-sub004/internal/companyexpense"
	companyExpensePostgres "github.com/mariustrier/TimeTrack-sub004/internal/companyexpense/postgres"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/database"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/events"
	"github.com/mariustrier/TimeTrack-sub004/internal/currency"
	"github.com/mariustrier/TimeTrack-sub004/internal/expense"
	expensePostgres "github.com/mariustrier/TimeTrack-sub004/internal/expense/postgres"
	"github.com/mariustrier/TimeTrack-sub004/internal/ratelimit"
	"github.com/mariustrier/TimeTrack-sub004/internal/timeentry"
	timeEntryPostgres "github.com/mariustrier/TimeTrack-sub004/internal/timeentry/postgres"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport/rest"
	"github.com/mariustrier/TimeTrack-sub004/internal/user"
	userPostgres "github.com/mariustrier/TimeTrack-sub004/internal/user/postgres"
	"github.com/mariustrier/TimeTrack-sub004/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	DB      *gorm.DB
	Router  *chi.Mux
	Bus     *events.EventBus
	Limiter ratelimit.Limiter
	Logger  *slog.Logger
	closers []func() error
}

func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.Warn("close dependency", "error", err)
		}
	}
}

func startHTTPServer() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	if err := setupRoutes(deps); err != nil {
		return err
	}

	cfg := deps.Config.Server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Logger.Info("starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		deps.Bus.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		deps.Logger.Error("server stopped with error", "error", err)
		return err
	}
	deps.Logger.Info("server stopped")
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	deps := &Dependencies{
		Config: config,
		Router: chi.NewRouter(),
		Bus:    events.NewEventBus(lg),
		Logger: lg,
	}

	db, err := database.Open(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database pool: %w", err)
	}
	deps.DB = db
	deps.closers = append(deps.closers, sqlDB.Close)

	limiter, closeLimiter, err := ratelimit.New(ctx, config.RateLimit, config.Redis, lg)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	deps.Limiter = limiter
	deps.closers = append(deps.closers, closeLimiter)

	deps.Bus.Subscribe(events.EventTypeApprovalTransitioned, events.LogHandler(lg))

	return deps, nil
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	baseHandler := transport.NewBaseHandler(lg)

	sqlDB, err := deps.DB.DB()
	if err != nil {
		return err
	}

	rates := currency.DefaultTable().WithOverrides(cfg.Currency.Rates)
	companyCurrency := cfg.Currency.Reference
	if companyCurrency == "" {
		companyCurrency = currency.Reference
	}

	userService := user.NewService(userPostgres.NewUserRepository(deps.DB), lg)
	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(deps.DB), lg)
	timeEntryService := timeentry.NewService(timeEntryPostgres.NewTimeEntryRepository(deps.DB), userService, deps.Bus, lg)
	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(deps.DB), categoryService, deps.Bus, rates, companyCurrency, lg)
	companyExpenseService := companyexpense.NewService(companyExpensePostgres.NewCompanyExpenseRepository(deps.DB), categoryService, rates, cfg.Currency.Language, lg)
	auditService := audit.NewService(auditPostgres.NewReader(sqlx.NewDb(sqlDB, "pgx")), lg)

	checks := map[string]rest.Check{"postgres": sqlDB.PingContext}
	if rl, ok := deps.Limiter.(*ratelimit.RedisLimiter); ok {
		checks["redis"] = rl.Ping
	}

	handlers := rest.Handlers{
		Health:         rest.NewHealthHandler(baseHandler, checks),
		Auth:           auth.NewHandler(auth.NewJWTTokenGenerator(cfg.Security), lg),
		User:           user.NewHandler(userService, lg),
		Category:       category.NewHandler(baseHandler, categoryService),
		TimeEntry:      timeentry.NewHandler(baseHandler, timeEntryService),
		Expense:        expense.NewHandler(baseHandler, expenseService),
		CompanyExpense: companyexpense.NewHandler(baseHandler, companyExpenseService),
		Currency:       currency.NewHandler(baseHandler, rates, cfg.Currency.Language),
		Audit:          audit.NewHandler(auditService, lg),
	}
	rest.RegisterAllRoutes(deps.Router, handlers, rest.RouterConfig{
		Server:    cfg.Server,
		RateLimit: cfg.RateLimit,
		Limiter:   deps.Limiter,
	}, lg)
	return nil
}
