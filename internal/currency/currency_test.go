package currency_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariustrier/TimeTrack-sub004/internal/currency"
)

func TestCurrency(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Currency Suite")
}

var _ = Describe("Currency", func() {
	var table currency.Table

	BeforeEach(func() {
		table = currency.DefaultTable()
	})

	Describe("Convert", func() {
		It("returns the amount unchanged for the same currency", func() {
			Expect(table.Convert(123.456, "EUR", "EUR")).To(Equal(123.456))
			Expect(table.Convert(0.1, "usd", "USD")).To(Equal(0.1))
		})

		It("converts through the reference rate", func() {
			Expect(table.Convert(100, "EUR", "DKK")).To(BeNumerically("~", 746, 1e-9))
			Expect(table.Convert(746, "DKK", "EUR")).To(BeNumerically("~", 100, 1e-9))
		})

		It("is the identity when a currency is unknown", func() {
			Expect(table.Convert(100, "XYZ", "DKK")).To(Equal(100.0))
			Expect(table.Convert(100, "DKK", "XYZ")).To(Equal(100.0))
		})

		It("round trips every known pair", func() {
			codes := []string{"DKK", "EUR", "USD", "GBP", "SEK", "NOK", "CHF", "PLN"}
			for _, a := range codes {
				for _, b := range codes {
					back := table.Convert(table.Convert(1234.56, a, b), b, a)
					Expect(back).To(BeNumerically("~", 1234.56, 1e-9), a+"->"+b)
				}
			}
		})

		It("applies configured overrides", func() {
			t := table.WithOverrides(map[string]float64{"eur": 7.5, "JPY": 0.046, "USD": -1})
			Expect(t.Convert(10, "EUR", "DKK")).To(BeNumerically("~", 75, 1e-9))
			Expect(t.Known("JPY")).To(BeTrue())
			Expect(t["USD"]).To(Equal(6.90))
			Expect(table["EUR"]).To(Equal(7.46))
		})
	})

	DescribeTable("SmartRound",
		func(in, want float64) {
			Expect(currency.SmartRound(in)).To(Equal(want))
		},
		Entry("step 1", 99.4, 99.0),
		Entry("step 5", 123.0, 125.0),
		Entry("step 5 just below 1000", 997.0, 995.0),
		Entry("step 50", 1234.0, 1250.0),
		Entry("step 50 upper", 5678.0, 5700.0),
		Entry("step 500", 12345.0, 12500.0),
		Entry("step 500 upper", 87654.0, 87500.0),
		Entry("step 1000", 123456.0, 123000.0),
		Entry("half rounds away from zero", 999500.0, 1000000.0),
		Entry("negative keeps sign", -1234.0, -1250.0),
		Entry("zero", 0.0, 0.0),
	)

	Describe("ConvertAndRound", func() {
		It("does not round when the currencies match", func() {
			Expect(table.ConvertAndRound(1234.0, "DKK", "DKK")).To(Equal(1234.0))
		})

		It("rounds the converted amount", func() {
			// 1000 EUR = 7460 DKK, step 50
			Expect(table.ConvertAndRound(1000, "EUR", "DKK")).To(Equal(7450.0))
		})

		It("uses the default table at package level", func() {
			Expect(currency.ConvertAndRound(1000, "EUR", "DKK")).To(Equal(7450.0))
			Expect(currency.Convert(5, "ZZZ", "DKK")).To(Equal(5.0))
		})
	})

	Describe("Format", func() {
		It("renders two decimals in standard mode", func() {
			Expect(currency.Format(1234.5, "eur", "en")).To(Equal("1,234.50 EUR"))
		})

		It("drops decimals in budget mode", func() {
			Expect(currency.FormatBudget(1250, "DKK", "en")).To(Equal("1,250 DKK"))
		})

		It("converts and smart-rounds for budget display", func() {
			Expect(table.FormatConverted(1000, "EUR", "DKK", "en", true)).To(Equal("7,450 DKK"))
			Expect(table.FormatConverted(100, "EUR", "DKK", "en", false)).To(Equal("746.00 DKK"))
		})

		It("validates ISO codes", func() {
			Expect(currency.ValidCode("sek")).To(BeTrue())
			Expect(currency.ValidCode("XX")).To(BeFalse())
		})
	})
})
