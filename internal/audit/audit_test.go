package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/audit"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
)

func TestAudit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Suite")
}

type mockReader struct {
	companyID string
	filter    audit.ListFilter
	err       error
}

func (m *mockReader) List(ctx context.Context, companyID string, filter audit.ListFilter) (audit.Page, error) {
	m.companyID = companyID
	m.filter = filter
	if m.err != nil {
		return audit.Page{}, m.err
	}
	return audit.Page{Page: 1, PageSize: 20}, nil
}

var _ = Describe("Metadata", func() {
	It("builds composite entity keys", func() {
		Expect(audit.DayKey("u1", "2024-01-10")).To(Equal("user:u1|day:2024-01-10"))
		Expect(audit.WeekKey("u1", "2024-01-08")).To(Equal("user:u1|week:2024-01-08"))
		Expect(audit.SubmissionKey("u1")).To(Equal("user:u1|submission"))
	})

	It("takes the action from the metadata type", func() {
		e := audit.NewEntry("c1", audit.EntityTimeEntry, "user:u1|week:2024-01-08", "admin", "locked", "draft",
			audit.WeekReopen{WeekStart: "2024-01-08", PreviousStatus: "locked", Reason: "typo"})
		Expect(e.Action).To(Equal(audit.ActionReopenWeek))
		Expect(e.ID).NotTo(BeEmpty())
	})

	It("decodes each action into its own type", func() {
		raw, err := json.Marshal(audit.DayRejection{Date: "2024-01-10", EntryCount: 2, TotalHours: 7.5, EntryIDs: []int64{1, 2}, Reason: "wrong project"})
		Expect(err).NotTo(HaveOccurred())

		md, err := audit.DecodeMetadata(audit.ActionRejectDay, raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(md).To(Equal(audit.DayRejection{Date: "2024-01-10", EntryCount: 2, TotalHours: 7.5, EntryIDs: []int64{1, 2}, Reason: "wrong project"}))
	})

	It("rejects unknown actions and tolerates empty payloads", func() {
		_, err := audit.DecodeMetadata(audit.Action("DELETE"), []byte(`{}`))
		Expect(err).To(HaveOccurred())

		md, err := audit.DecodeMetadata(audit.ActionSubmit, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(md).To(BeNil())
	})

	It("clamps paging", func() {
		f := audit.ListFilter{Page: -1, PageSize: 500}.Normalize()
		Expect(f.Page).To(Equal(1))
		Expect(f.PageSize).To(Equal(audit.MaxPageSize))
		Expect(audit.ListFilter{}.Normalize().PageSize).To(Equal(audit.DefaultPageSize))
	})
})

var _ = Describe("Service", func() {
	var (
		reader  *mockReader
		service *audit.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		reader = &mockReader{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = audit.NewService(reader, lg)
		ctx = context.Background()
	})

	It("lets managers read their own company", func() {
		p := &auth.Principal{UserID: "m1", CompanyID: "c1", Role: auth.RoleManager}
		_, err := service.List(ctx, p, audit.ListFilter{Action: audit.ActionLockWeek})
		Expect(err).NotTo(HaveOccurred())
		Expect(reader.companyID).To(Equal("c1"))
		Expect(reader.filter.Action).To(Equal(audit.ActionLockWeek))
	})

	It("forbids employees", func() {
		p := &auth.Principal{UserID: "e1", CompanyID: "c1", Role: auth.RoleEmployee}
		_, err := service.List(ctx, p, audit.ListFilter{})
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		Expect(reader.companyID).To(BeEmpty())
	})

	It("validates filters", func() {
		p := &auth.Principal{UserID: "a1", CompanyID: "c1", Role: auth.RoleAdmin}
		_, err := service.List(ctx, p, audit.ListFilter{Action: "DROP"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
	})

	It("wraps storage failures", func() {
		reader.err = errors.New("connection refused")
		p := &auth.Principal{UserID: "a1", CompanyID: "c1", Role: auth.RoleAdmin}
		_, err := service.List(ctx, p, audit.ListFilter{})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})
