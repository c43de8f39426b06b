package companyexpense

import "time"

// Expand materialises templates into the occurrences falling inside
// [start, end], compared by calendar day. A non-recurring template yields its
// own date at most once. A recurring template is stepped by its frequency from
// the first day of the month containing its date, so a template dated the
// 15th recurs on the 1st. Output follows template order, then date.
func Expand(templates []*CompanyExpense, start, end time.Time) []Occurrence {
	from, to := day(start), day(end)
	out := make([]Occurrence, 0, len(templates))

	for _, t := range templates {
		d := day(t.Date)
		if !t.Recurring {
			if !d.Before(from) && !d.After(to) {
				out = append(out, occurrence(t, d))
			}
			continue
		}

		step := t.Frequency.Months()
		for cursor := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC); !cursor.After(to); cursor = cursor.AddDate(0, step, 0) {
			if !cursor.Before(from) {
				out = append(out, occurrence(t, cursor))
			}
		}
	}
	return out
}

func occurrence(t *CompanyExpense, date time.Time) Occurrence {
	return Occurrence{
		TemplateID:  t.ID,
		Date:        date,
		Amount:      t.Amount,
		Currency:    t.Currency,
		Category:    t.Category,
		Description: t.Description,
	}
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
