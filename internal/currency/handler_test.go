package currency_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariustrier/TimeTrack-sub004/internal/currency"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
)

var _ = Describe("Handler", func() {
	var handler *currency.Handler

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = currency.NewHandler(transport.NewBaseHandler(lg), currency.DefaultTable(), "en")
	})

	get := func(query string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.Convert(rec, httptest.NewRequest(http.MethodGet, "/api/v1/currency/convert?"+query, nil))
		return rec
	}

	It("converts and smart-rounds on request", func() {
		rec := get("amount=100&from=eur&to=DKK&round=true")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp currency.ConvertResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.From).To(Equal("EUR"))
		Expect(resp.Converted).To(Equal(745.0))
		Expect(resp.Display).To(Equal("745 DKK"))
	})

	It("returns the exact figure without rounding", func() {
		rec := get("amount=100&from=EUR&to=DKK")
		var resp currency.ConvertResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Converted).To(BeNumerically("~", 746, 1e-9))
		Expect(resp.Display).To(Equal("746.00 DKK"))
	})

	It("rejects a non-numeric amount", func() {
		rec := get("amount=abc&from=EUR&to=DKK")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_AMOUNT"))
	})

	It("rejects a malformed currency code", func() {
		rec := get("amount=1&from=EURO&to=DKK")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_CURRENCY"))
	})
})
