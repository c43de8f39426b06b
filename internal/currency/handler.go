package currency

import (
	"net/http"
	"strconv"

	"github.com/mariustrier/TimeTrack-sub004/internal"
	"github.com/mariustrier/TimeTrack-sub004/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Rates    Table
	Language string
}

func NewHandler(baseHandler *transport.BaseHandler, rates Table, language string) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Rates:       rates,
		Language:    language,
	}
}

type ConvertResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Rounded   bool    `json:"rounded"`
	Display   string  `json:"display"`
}

// Convert handles GET /currency/convert?amount=&from=&to=&round=.
// Unknown codes convert as the identity.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil {
		h.HandleServiceError(w, r, internal.NewValidationFieldError("amount", "Amount must be a number", internal.ErrCodeInvalidAmount))
		return
	}

	from, to := normalize(q.Get("from")), normalize(q.Get("to"))
	for field, code := range map[string]string{"from": from, "to": to} {
		if !ValidCode(code) {
			h.HandleServiceError(w, r, internal.NewValidationFieldError(field, "must be an ISO 4217 currency code", internal.ErrCodeInvalidCurrency))
			return
		}
	}

	round, _ := strconv.ParseBool(q.Get("round"))

	resp := ConvertResponse{Amount: amount, From: from, To: to, Rounded: round}
	if round {
		resp.Converted = h.Rates.ConvertAndRound(amount, from, to)
	} else {
		resp.Converted = h.Rates.Convert(amount, from, to)
	}
	resp.Display = h.Rates.FormatConverted(amount, from, to, h.Language, round)

	h.WriteJSON(w, http.StatusOK, resp)
}
