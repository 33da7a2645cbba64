package stats

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ledger/internal/http/respond"
	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/record"
	"github.com/MrJamesThe3rd/ledger/internal/stats"
)

type Handler struct {
	svc *stats.Service
}

func NewHandler(svc *stats.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.compute)
}

type itemResponse struct {
	Label       string `json:"label"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
}

type statsResponse struct {
	Dimension    stats.Dimension `json:"dimension"`
	Start        string          `json:"start"`
	End          string          `json:"end"`
	Items        []itemResponse  `json:"items"`
	TotalIncome  string          `json:"total_income"`
	TotalExpense string          `json:"total_expense"`
}

// compute expects dimension, start and end query parameters.
// Item amounts are signed: expenses positive, income negative.
func (h *Handler) compute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	dim, err := stats.ParseDimension(q.Get("dimension"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	start, err := record.ParseDate(q.Get("start"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	end, err := record.ParseDate(q.Get("end"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.Compute(r.Context(), dim, start, end)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := statsResponse{
		Dimension:    res.Dimension,
		Start:        res.Start.Format(time.DateOnly),
		End:          res.End.Format(time.DateOnly),
		Items:        make([]itemResponse, 0, len(res.Items)),
		TotalIncome:  money.Format(res.TotalIncome),
		TotalExpense: money.Format(res.TotalExpense),
	}

	for _, it := range res.Items {
		resp.Items = append(resp.Items, itemResponse{
			Label:       it.Label,
			Amount:      money.Format(it.Amount),
			AmountCents: it.Amount,
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}
