package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/category"
	categoryPostgres "github.com/mariustrier/TimeTrack-sub004/internal/category/postgres"
	"github.com/mariustrier/TimeTrack-sub004/internal/core/database"
	"github.com/mariustrier/TimeTrack-sub004/internal/user"
	userPostgres "github.com/mariustrier/TimeTrack-sub004/internal/user/postgres"
	"github.com/mariustrier/TimeTrack-sub004/pkg/logger"
)

var (
	clearData   bool
	seedCompany string
)

// seededTables are wiped for the seeded company when --clear is set, children
// first.
var seededTables = []string{"audit_logs", "time_entries", "expenses", "company_expenses", "expense_categories", "users"}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed one demo company with an admin, a manager, an employee and a set of expense categories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		lg := logger.LoggerWrapper()

		if clearData {
			for _, table := range seededTables {
				if err := db.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE company_id = ?", seedCompany).Error; err != nil {
					return fmt.Errorf("failed to clear %s: %w", table, err)
				}
			}
			lg.Info("cleared company data", "company_id", seedCompany)
		}

		users := user.NewService(userPostgres.NewUserRepository(db), lg)
		members := []*user.User{
			{ID: "admin-1", CompanyID: seedCompany, Email: "admin@example.com", Name: "Ada Admin", Role: auth.RoleAdmin, IsActive: true},
			{ID: "manager-1", CompanyID: seedCompany, Email: "manager@example.com", Name: "Mads Manager", Role: auth.RoleManager, IsActive: true},
			{ID: "employee-1", CompanyID: seedCompany, Email: "employee@example.com", Name: "Emma Employee", Role: auth.RoleEmployee, IsActive: true},
		}
		for _, u := range members {
			if err := users.Register(ctx, u); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.ID, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
		}

		categories := category.NewService(categoryPostgres.NewCategoryRepository(db), lg)
		admin := &auth.Principal{UserID: "admin-1", CompanyID: seedCompany, Role: auth.RoleAdmin}
		for _, c := range []category.CreateCategoryDTO{
			{Name: "travel", Description: "Travel and transport"},
			{Name: "meals", Description: "Meals and entertainment"},
			{Name: "software", Description: "Licences and subscriptions"},
			{Name: "office", Description: "Office supplies and equipment"},
			{Name: "other", Description: "Anything else"},
		} {
			if _, err := categories.Create(ctx, admin, c); err != nil {
				if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeConflict {
					continue
				}
				return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
			}
			fmt.Printf("Seeded expense category: %s\n", c.Name)
		}

		fmt.Println("Seed complete for company:", seedCompany)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVar(&seedCompany, "company", "demo", "company id to seed")
}
