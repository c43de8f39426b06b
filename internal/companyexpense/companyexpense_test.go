package companyexpense_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	"github.com/mariustrier/TimeTrack-sub004/internal/category"
	categoryPostgres "github.com/mariustrier/TimeTrack-sub004/internal/category/postgres"
	"github.com/mariustrier/TimeTrack-sub004/internal/companyexpense"
	companyexpensePostgres "github.com/mariustrier/TimeTrack-sub004/internal/companyexpense/postgres"
	categoryDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/category"
	companyexpenseDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/companyexpense"
	"github.com/mariustrier/TimeTrack-sub004/internal/currency"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
)

func TestCompanyExpense(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CompanyExpense Suite")
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func dates(occ []companyexpense.Occurrence) []string {
	out := make([]string, len(occ))
	for i, o := range occ {
		out[i] = o.Date.Format("2006-01-02")
	}
	return out
}

var _ = Describe("Expand", func() {
	template := func(id int64, d string, recurring bool, freq companyexpense.Frequency) *companyexpense.CompanyExpense {
		return &companyexpense.CompanyExpense{
			ID:        id,
			Amount:    decimal.NewFromInt(100),
			Currency:  "DKK",
			Category:  "rent",
			Date:      date(d),
			Recurring: recurring,
			Frequency: freq,
		}
	}

	It("snaps monthly templates to the first of the month", func() {
		occ := companyexpense.Expand([]*companyexpense.CompanyExpense{
			template(1, "2024-01-15", true, companyexpense.FrequencyMonthly),
		}, date("2024-01-01"), date("2024-03-31"))

		Expect(dates(occ)).To(Equal([]string{"2024-01-01", "2024-02-01", "2024-03-01"}))
		Expect(occ[0].TemplateID).To(Equal(int64(1)))
		Expect(occ[0].Amount.Equal(decimal.NewFromInt(100))).To(BeTrue())
		Expect(occ[0].Category).To(Equal("rent"))
	})

	It("skips stepped dates before the window", func() {
		occ := companyexpense.Expand([]*companyexpense.CompanyExpense{
			template(1, "2024-01-15", true, companyexpense.FrequencyMonthly),
		}, date("2024-01-10"), date("2024-02-29"))

		Expect(dates(occ)).To(Equal([]string{"2024-02-01"}))
	})

	DescribeTable("steps by frequency",
		func(start string, freq companyexpense.Frequency, from, to string, expected []string) {
			occ := companyexpense.Expand([]*companyexpense.CompanyExpense{template(1, start, true, freq)}, date(from), date(to))
			Expect(dates(occ)).To(Equal(expected))
		},
		Entry("quarterly", "2023-11-20", companyexpense.FrequencyQuarterly, "2024-01-01", "2024-12-31",
			[]string{"2024-02-01", "2024-05-01", "2024-08-01", "2024-11-01"}),
		Entry("yearly", "2022-06-30", companyexpense.FrequencyYearly, "2024-01-01", "2024-12-31",
			[]string{"2024-06-01"}),
		Entry("unknown falls back to monthly", "2024-01-31", companyexpense.Frequency("weekly"), "2024-01-01", "2024-02-29",
			[]string{"2024-01-01", "2024-02-01"}),
		Entry("template after the window", "2025-01-01", companyexpense.FrequencyMonthly, "2024-01-01", "2024-12-31",
			[]string{}),
	)

	It("includes one-off expenses on either bound", func() {
		occ := companyexpense.Expand([]*companyexpense.CompanyExpense{
			template(1, "2024-01-01", false, ""),
			template(2, "2024-01-31", false, ""),
			template(3, "2024-02-01", false, ""),
		}, date("2024-01-01"), date("2024-01-31").Add(15*time.Hour))

		Expect(dates(occ)).To(Equal([]string{"2024-01-01", "2024-01-31"}))
	})

	It("is deterministic", func() {
		templates := []*companyexpense.CompanyExpense{
			template(1, "2024-01-15", true, companyexpense.FrequencyMonthly),
			template(2, "2024-02-10", false, ""),
		}
		first := companyexpense.Expand(templates, date("2024-01-01"), date("2024-06-30"))
		Expect(companyexpense.Expand(templates, date("2024-01-01"), date("2024-06-30"))).To(Equal(first))
		Expect(first).To(HaveLen(7))
	})
})

var _ = Describe("Service", func() {
	var (
		db      *gorm.DB
		service *companyexpense.Service
		ctx     context.Context
		admin   *auth.Principal
		manager *auth.Principal
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&companyexpenseDatamodel.CompanyExpense{}, &categoryDatamodel.ExpenseCategory{})).To(Succeed())
		Expect(db.Create(&categoryDatamodel.ExpenseCategory{CompanyID: "c1", Name: "software", IsActive: true}).Error).To(Succeed())

		ctx = context.Background()
		categories := category.NewService(categoryPostgres.NewCategoryRepository(db), slogger)
		service = companyexpense.NewService(companyexpensePostgres.NewCompanyExpenseRepository(db), categories, currency.DefaultTable(), "en", slogger)
		admin = &auth.Principal{UserID: "a1", CompanyID: "c1", Role: auth.RoleAdmin}
		manager = &auth.Principal{UserID: "m1", CompanyID: "c1", Role: auth.RoleManager}
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	createMonthly := func() *companyexpense.CompanyExpense {
		e, err := service.Create(ctx, admin, companyexpense.CreateCompanyExpenseDTO{
			Amount:    decimal.NewFromInt(1000),
			Currency:  "dkk",
			Category:  "Software",
			Date:      "2024-01-15",
			Recurring: true,
		})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	It("stores templates and defaults the frequency to monthly", func() {
		e := createMonthly()
		Expect(e.Frequency).To(Equal(companyexpense.FrequencyMonthly))
		Expect(e.Currency).To(Equal("DKK"))

		list, err := service.List(ctx, manager)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Amount.Equal(decimal.NewFromInt(1000))).To(BeTrue())
	})

	It("converts occurrences into a display currency as budget figures", func() {
		createMonthly()

		resp, err := service.Occurrences(ctx, manager, "2024-01-01", "2024-03-31", "eur")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Occurrences).To(HaveLen(3))
		Expect(*resp.Occurrences[0].DisplayAmount).To(BeNumerically("==", 135))
		Expect(resp.Occurrences[0].Display).To(Equal("135 EUR"))
		Expect(*resp.Total).To(BeNumerically("==", 405))
		Expect(resp.TotalDisplay).To(Equal("405 EUR"))
	})

	It("leaves amounts alone without a display currency", func() {
		createMonthly()

		resp, err := service.Occurrences(ctx, admin, "2024-01-01", "2024-01-31", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Occurrences).To(HaveLen(1))
		Expect(resp.Occurrences[0].DisplayAmount).To(BeNil())
		Expect(resp.Total).To(BeNil())
	})

	It("rejects inverted windows and unknown display currencies", func() {
		_, err := service.Occurrences(ctx, admin, "2024-03-01", "2024-01-01", "")
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRange))

		_, err = service.Occurrences(ctx, admin, "2024-01-01", "2024-03-01", "XYZ")
		appErr, ok = internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))

		_, err = service.Occurrences(ctx, admin, "Jan 1", "2024-03-01", "")
		Expect(err).To(MatchError(internal.ErrInvalidDate))
	})

	It("only lets admins create templates", func() {
		_, err := service.Create(ctx, manager, companyexpense.CreateCompanyExpenseDTO{
			Amount: decimal.NewFromInt(10), Currency: "DKK", Category: "software", Date: "2024-01-01",
		})
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
	})

	It("validates the category against the tenant", func() {
		_, err := service.Create(ctx, admin, companyexpense.CreateCompanyExpenseDTO{
			Amount: decimal.NewFromInt(10), Currency: "DKK", Category: "yachts", Date: "2024-01-01",
		})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("rejects non-positive amounts", func() {
		_, err := service.Create(ctx, admin, companyexpense.CreateCompanyExpenseDTO{
			Amount: decimal.Zero, Currency: "DKK", Category: "software", Date: "2024-01-01",
		})
		Expect(err).To(MatchError(ContainSubstring("Amount")))
	})

	It("serves occurrences over HTTP", func() {
		createMonthly()
		h := companyexpense.NewHandler(transport.NewBaseHandler(nil), service)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/company-expenses/occurrences?from=2024-01-01&to=2024-03-31&currency=EUR", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), manager))
		rec := httptest.NewRecorder()
		h.ListOccurrences(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"total_display":"405 EUR"`))
	})
})
