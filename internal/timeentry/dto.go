package timeentry

// CreateTimeEntryDTO is the payload for logging hours on one day.
type CreateTimeEntryDTO struct {
	ProjectID     string  `json:"project_id" validate:"required,max=64"`
	Date          string  `json:"date" validate:"required,isodate"`
	Hours         float64 `json:"hours" validate:"gte=0,lte=24"`
	Comment       string  `json:"comment" validate:"max=1000"`
	BillingStatus string  `json:"billing_status" validate:"omitempty,oneof=billable non_billable"`
}

type SubmitDTO struct {
	IDs []int64 `json:"ids"`
}

type DayDTO struct {
	UserID string `json:"user_id" validate:"required"`
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}

// WeekDTO addresses the week containing WeekStart.
type WeekDTO struct {
	UserID    string `json:"user_id" validate:"required"`
	WeekStart string `json:"week_start"`
	Reason    string `json:"reason,omitempty"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ListResponse struct {
	Entries []*TimeEntry `json:"entries"`
}
