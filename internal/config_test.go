package internal_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariustrier/TimeTrack-sub004/internal"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "*",
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
		},
		Database: internal.DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 2},
		Security: internal.SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
		RateLimit: internal.RateLimitConfig{
			Backend:     "memory",
			Window:      time.Minute,
			MaxRequests: 30,
		},
		Currency:      internal.CurrencyConfig{Rates: map[string]float64{"EUR": 7.46}},
		Observability: internal.ObservabilityConfig{Logging: internal.LoggingConfig{Level: "info", Format: "json"}},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("aggregates errors from several sections", func() {
		cfg := validConfig()
		cfg.Security.JWTSecret = "short"
		cfg.Database.MaxIdleConns = 50
		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("security config"))
		Expect(err.Error()).To(ContainSubstring("database config"))
	})

	It("requires a redis address for the redis backend", func() {
		cfg := validConfig()
		cfg.RateLimit.Backend = "redis"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("redis.addr is required")))

		cfg.Redis.Addr = "localhost:6379"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("rejects non-positive currency rates", func() {
		cfg := validConfig()
		cfg.Currency.Rates["USD"] = 0
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("rate for USD must be positive")))
	})

	It("loads defaults from the environment", func() {
		GinkgoT().Setenv("PORT", "9090")
		GinkgoT().Setenv("RATE_LIMIT_WINDOW", "30s")
		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.RateLimit.Window).To(Equal(30 * time.Second))
		Expect(cfg.Currency.Reference).To(Equal("DKK"))
	})
})

var _ = Describe("AppError", func() {
	It("matches sentinels through errors.Is after being copied", func() {
		err := internal.ErrNoMatchingEntries.WithDetails(map[string]string{"user_id": "u1"})
		Expect(err).To(MatchError(internal.ErrNoMatchingEntries))
		Expect(err.StatusCode).To(Equal(422))
	})

	It("is found behind wrapping", func() {
		wrapped := internal.NewInternalError("db down", nil).WithCause(internal.ErrMissingReason)
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})
