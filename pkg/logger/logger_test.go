package logger_test

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariustrier/TimeTrack-sub004/pkg/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	DescribeTable("ParseLevel",
		func(in string, want slog.Level) {
			Expect(logger.ParseLevel(in)).To(Equal(want))
		},
		Entry("debug", "debug", slog.LevelDebug),
		Entry("upper case warn", "WARN", slog.LevelWarn),
		Entry("error", "error", slog.LevelError),
		Entry("unknown falls back to info", "verbose", slog.LevelInfo),
	)

	It("returns the default logger when the context carries none", func() {
		Expect(logger.From(context.Background())).To(BeIdenticalTo(logger.LoggerWrapper()))
	})

	It("stores a derived logger in the context", func() {
		ctx := logger.With(context.Background(), "trace_id", "abc")
		Expect(logger.From(ctx)).NotTo(BeIdenticalTo(logger.LoggerWrapper()))
	})
})
