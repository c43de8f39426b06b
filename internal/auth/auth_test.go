package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

const secret = "0123456789abcdef0123456789abcdef"

func newGenerator() *auth.JWTTokenGenerator {
	return auth.NewJWTTokenGenerator(internal.SecurityConfig{
		JWTSecret:   secret,
		JWTIssuer:   "https://id.example.com",
		JWTAudience: "timetrack",
		DevTokenTTL: time.Hour,
	})
}

var _ = Describe("Roles", func() {
	DescribeTable("capabilities",
		func(role auth.Role, c auth.Capability, want bool) {
			Expect(role.Can(c)).To(Equal(want))
		},
		Entry("admin approves time", auth.RoleAdmin, auth.CapApproveTime, true),
		Entry("admin locks weeks", auth.RoleAdmin, auth.CapLockTime, true),
		Entry("manager cannot approve time", auth.RoleManager, auth.CapApproveTime, false),
		Entry("manager views audit", auth.RoleManager, auth.CapViewAudit, true),
		Entry("employee submits", auth.RoleEmployee, auth.CapSubmitOwn, true),
		Entry("employee cannot approve expenses", auth.RoleEmployee, auth.CapApproveExpenses, false),
		Entry("unknown role has nothing", auth.Role("owner"), auth.CapSubmitOwn, false),
	)

	It("parses roles case-insensitively and rejects unknown ones", func() {
		r, ok := auth.ParseRole(" Admin ")
		Expect(ok).To(BeTrue())
		Expect(r).To(Equal(auth.RoleAdmin))

		_, ok = auth.ParseRole("superuser")
		Expect(ok).To(BeFalse())
	})

	It("authorizes principals", func() {
		Expect(auth.Authorize(nil, auth.CapSubmitOwn)).To(MatchError(ContainSubstring("authentication required")))

		employee := &auth.Principal{UserID: "u1", CompanyID: "c1", Role: auth.RoleEmployee}
		err := auth.Authorize(employee, auth.CapLockTime)
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))

		admin := &auth.Principal{UserID: "u2", CompanyID: "c1", Role: auth.RoleAdmin}
		Expect(auth.Authorize(admin, auth.CapLockTime)).To(Succeed())
	})
})

var _ = Describe("JWTTokenGenerator", func() {
	var gen *auth.JWTTokenGenerator

	BeforeEach(func() {
		gen = newGenerator()
	})

	It("round trips an issued token", func() {
		token, err := gen.Issue(auth.Principal{UserID: "u1", CompanyID: "c1", Role: auth.RoleManager, Email: "m@example.com"})
		Expect(err).NotTo(HaveOccurred())

		p, err := gen.Verify(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(*p).To(Equal(auth.Principal{UserID: "u1", CompanyID: "c1", Role: auth.RoleManager, Email: "m@example.com"}))
	})

	It("rejects a token signed with another secret", func() {
		other := newGenerator()
		other.Secret = []byte("another-secret-another-secret-xx")
		token, err := other.Issue(auth.Principal{UserID: "u1", CompanyID: "c1", Role: auth.RoleAdmin})
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("reports expired tokens", func() {
		gen.TTL = -time.Minute
		token, err := gen.Issue(auth.Principal{UserID: "u1", CompanyID: "c1", Role: auth.RoleAdmin})
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.Verify(token)
		Expect(err).To(MatchError(internal.ErrTokenExpired))
	})

	It("rejects unknown roles and missing tenants", func() {
		claims := &auth.Claims{
			CompanyID: "c1",
			Role:      "superuser",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				Issuer:    gen.Issuer,
				Audience:  jwt.ClaimStrings{gen.Audience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		Expect(err).NotTo(HaveOccurred())
		_, err = gen.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))

		noTenant, err := gen.Issue(auth.Principal{UserID: "u1", Role: auth.RoleAdmin})
		Expect(err).NotTo(HaveOccurred())
		_, err = gen.Verify(noTenant)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects a wrong audience", func() {
		token, err := gen.Issue(auth.Principal{UserID: "u1", CompanyID: "c1", Role: auth.RoleAdmin})
		Expect(err).NotTo(HaveOccurred())

		strict := newGenerator()
		strict.Audience = "billing"
		_, err = strict.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})
})

var _ = Describe("Handler middleware", func() {
	var (
		gen     *auth.JWTTokenGenerator
		handler *auth.Handler
		seen    *auth.Principal
		next    http.Handler
	)

	BeforeEach(func() {
		gen = newGenerator()
		handler = auth.NewHandler(gen, nil)
		seen = nil
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = auth.PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
	})

	It("returns 401 without a bearer token", func() {
		rec := httptest.NewRecorder()
		handler.AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(ContainSubstring("MISSING_TOKEN"))
	})

	It("injects the principal and enforces capabilities", func() {
		token, err := gen.Issue(auth.Principal{UserID: "u1", CompanyID: "c1", Role: auth.RoleEmployee})
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		handler.AuthMiddleware(handler.Require(auth.CapSubmitOwn)(next)).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(seen.UserID).To(Equal("u1"))

		rec = httptest.NewRecorder()
		handler.AuthMiddleware(handler.Require(auth.CapApproveTime)(next)).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})
})
