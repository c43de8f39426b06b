package user_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
	userDatamodel "github.com/mariustrier/TimeTrack-sub004/internal/core/datamodel/user"
	"github.com/mariustrier/TimeTrack-sub004/internal/user"
	"github.com/mariustrier/TimeTrack-sub004/internal/user/postgres"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

var _ = Describe("User service", func() {
	var (
		db      *gorm.DB
		service *user.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(postgres.NewUserRepository(db), lg)
		ctx = context.Background()

		Expect(service.Register(ctx, &user.User{ID: "u1", CompanyID: "c1", Email: "a@x.dk", Name: "Anna", Role: auth.RoleEmployee, IsActive: true})).To(Succeed())
		Expect(service.Register(ctx, &user.User{ID: "u2", CompanyID: "c2", Email: "b@y.dk", Name: "Bo", Role: auth.RoleAdmin, IsActive: true})).To(Succeed())
		Expect(service.Register(ctx, &user.User{ID: "u3", CompanyID: "c1", Email: "c@x.dk", Name: "Carl", Role: auth.RoleEmployee, IsActive: false})).To(Succeed())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("returns the caller's own membership", func() {
		u, err := service.Current(ctx, &auth.Principal{UserID: "u1", CompanyID: "c1", Role: auth.RoleEmployee})
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Name).To(Equal("Anna"))
		Expect(u.Role).To(Equal(auth.RoleEmployee))
	})

	It("does not find users through another tenant", func() {
		_, err := service.Current(ctx, &auth.Principal{UserID: "u2", CompanyID: "c1", Role: auth.RoleAdmin})
		Expect(err).To(MatchError(internal.ErrUserNotFound))
	})

	It("checks active membership", func() {
		Expect(service.EnsureMember(ctx, "c1", "u1")).To(Succeed())
		Expect(service.EnsureMember(ctx, "c1", "u2")).To(MatchError(internal.ErrCrossTenant))
		Expect(service.EnsureMember(ctx, "c1", "u3")).To(MatchError(internal.ErrCrossTenant))
	})

	It("refreshes an existing membership", func() {
		Expect(service.Register(ctx, &user.User{ID: "u1", CompanyID: "c1", Email: "anna@x.dk", Name: "Anna", Role: auth.RoleManager, IsActive: true})).To(Succeed())
		u, err := service.Current(ctx, &auth.Principal{UserID: "u1", CompanyID: "c1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Role).To(Equal(auth.RoleManager))
		Expect(u.Email).To(Equal("anna@x.dk"))
	})

	It("rejects unknown roles", func() {
		err := service.Register(ctx, &user.User{ID: "u9", CompanyID: "c1", Role: "owner"})
		Expect(err).To(HaveOccurred())
	})
})
