package postgres

import (
	"context"
	"strconv"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	auditDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/audit"
	expenseDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/expense"
	"github.com/mariustrier/TimeTrack-sub004/internal/expense"
)

func TestExpenseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ExpenseRepository Suite")
}

var _ = Describe("ExpenseRepository", func() {
	var (
		db   *gorm.DB
		repo *ExpenseRepository
		ctx  context.Context
	)

	seed := func(companyID, userID string, status expense.Status) int64 {
		e := &expense.Expense{
			CompanyID:      companyID,
			UserID:         userID,
			Amount:         decimal.RequireFromString("42.50"),
			Currency:       "DKK",
			CurrencyAmount: decimal.RequireFromString("42.50"),
			Description:    "lunch",
			Category:       "meals",
			ExpenseDate:    time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			ApprovalStatus: status,
		}
		Expect(repo.Create(ctx, e)).To(Succeed())
		return e.ID
	}

	load := func(id int64) expenseDatamodel.Expense {
		var row expenseDatamodel.Expense
		Expect(db.First(&row, id).Error).To(Succeed())
		return row
	}

	approve := func(ids ...int64) expense.TransitionResult {
		res, err := repo.Transition(ctx, expense.Transition{
			CompanyID: "c1",
			IDs:       ids,
			From:      expense.StatusSubmitted,
			To:        expense.StatusApproved,
			Set:       map[string]interface{}{"approved_by": "a1", "is_finalized": true, "finalized_at": time.Now().UTC()},
			Audit: func(e *expense.Expense) audit.Entry {
				return audit.NewEntry("c1", audit.EntityExpense, expenseKey(e), "a1", "submitted", "approved",
					audit.ExpenseApproval{Amount: e.Amount.String(), Category: e.Category, OwnerID: e.UserID})
			},
		})
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&expenseDatamodel.Expense{}, &auditDatamodel.AuditLog{})).To(Succeed())

		repo = NewExpenseRepository(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("approves only submitted rows of the tenant and audits each one", func() {
		a := seed("c1", "u1", expense.StatusSubmitted)
		b := seed("c1", "u2", expense.StatusSubmitted)
		draft := seed("c1", "u1", expense.StatusDraft)
		foreign := seed("c2", "u9", expense.StatusSubmitted)

		res := approve(a, b, draft, foreign)
		Expect(res.Count).To(Equal(int64(2)))
		Expect(res.Matched).To(HaveLen(2))

		row := load(a)
		Expect(row.ApprovalStatus).To(Equal("approved"))
		Expect(row.IsFinalized).To(BeTrue())
		Expect(row.FinalizedAt).NotTo(BeNil())
		Expect(row.Amount.Equal(decimal.RequireFromString("42.5"))).To(BeTrue())
		Expect(load(draft).ApprovalStatus).To(Equal("draft"))
		Expect(load(foreign).ApprovalStatus).To(Equal("submitted"))

		var logs []auditDatamodel.AuditLog
		Expect(db.Order("entity_id ASC").Find(&logs).Error).To(Succeed())
		Expect(logs).To(HaveLen(2))
		Expect(logs[0].Action).To(Equal("APPROVE_EXPENSE"))
		Expect(logs[0].CompanyID).To(Equal("c1"))
	})

	It("never touches finalized rows again", func() {
		id := seed("c1", "u1", expense.StatusSubmitted)
		Expect(approve(id).Count).To(Equal(int64(1)))

		// Force the status back while keeping the finalized flag.
		Expect(db.Model(&expenseDatamodel.Expense{}).Where("id = ?", id).Update("approval_status", "submitted").Error).To(Succeed())
		Expect(approve(id).Count).To(BeZero())

		res, err := repo.Transition(ctx, expense.Transition{
			CompanyID: "c1", IDs: []int64{id}, From: expense.StatusSubmitted, To: expense.StatusRejected,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Count).To(BeZero())

		var n int64
		Expect(db.Model(&auditDatamodel.AuditLog{}).Count(&n).Error).To(Succeed())
		Expect(n).To(Equal(int64(1)))
	})

	It("restricts transitions to an owner when requested", func() {
		mine := seed("c1", "u1", expense.StatusDraft)
		theirs := seed("c1", "u2", expense.StatusDraft)

		res, err := repo.Transition(ctx, expense.Transition{
			CompanyID: "c1", OwnerID: "u1", IDs: []int64{mine, theirs},
			From: expense.StatusDraft, To: expense.StatusSubmitted,
			Set: map[string]interface{}{"submitted_at": time.Now().UTC()},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Count).To(Equal(int64(1)))
		Expect(load(mine).SubmittedAt).NotTo(BeNil())
		Expect(load(theirs).ApprovalStatus).To(Equal("draft"))
	})

	It("clears the rejection reason with a nil value", func() {
		id := seed("c1", "u1", expense.StatusSubmitted)
		res, err := repo.Transition(ctx, expense.Transition{
			CompanyID: "c1", IDs: []int64{id}, From: expense.StatusSubmitted, To: expense.StatusRejected,
			Set: map[string]interface{}{"rejected_by": "a1", "rejection_reason": nil},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Count).To(Equal(int64(1)))

		row := load(id)
		Expect(row.ApprovalStatus).To(Equal("rejected"))
		Expect(row.RejectionReason).To(BeNil())
		Expect(row.IsFinalized).To(BeFalse())
	})

	It("lists by owner and status within a tenant", func() {
		seed("c1", "u1", expense.StatusDraft)
		seed("c1", "u1", expense.StatusSubmitted)
		seed("c1", "u2", expense.StatusSubmitted)
		seed("c2", "u1", expense.StatusSubmitted)

		all, err := repo.List(ctx, "c1", expense.ListFilter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))

		mine, err := repo.List(ctx, "c1", expense.ListFilter{UserID: "u1", Status: expense.StatusSubmitted})
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(1))
		Expect(mine[0].CurrencyAmount.String()).To(Equal("42.5"))
	})
})

func expenseKey(e *expense.Expense) string {
	return strconv.FormatInt(e.ID, 10)
}
