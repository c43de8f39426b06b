package currency

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format renders amount with two decimals followed by the ISO code, grouped
// according to lang (a BCP 47 tag such as "da" or "en").
func Format(amount float64, code, lang string) string {
	return render(amount, code, lang, 2)
}

// FormatBudget renders amount without decimals.
func FormatBudget(amount float64, code, lang string) string {
	return render(amount, code, lang, 0)
}

// FormatConverted converts amount into the display currency and formats it.
// Budget mode smart-rounds the converted figure and drops decimals.
func (t Table) FormatConverted(amount float64, from, to, lang string, budget bool) string {
	if budget {
		return FormatBudget(t.ConvertAndRound(amount, from, to), to, lang)
	}
	return Format(t.Convert(amount, from, to), to, lang)
}

// ValidCode reports whether code is a syntactically valid ISO 4217 code.
func ValidCode(code string) bool {
	_, err := currency.ParseISO(normalize(code))
	return err == nil
}

func render(amount float64, code, lang string, scale int) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	label := normalize(code)
	if unit, err := currency.ParseISO(label); err == nil {
		label = unit.String()
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%v %s", number.Decimal(amount, number.Scale(scale)), label)
}
