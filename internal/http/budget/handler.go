package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ledger/internal/budget"
	"github.com/MrJamesThe3rd/ledger/internal/http/respond"
	"github.com/MrJamesThe3rd/ledger/internal/money"
)

type Handler struct {
	svc              *budget.Service
	defaultThreshold float64
}

func NewHandler(svc *budget.Service, defaultThreshold float64) *Handler {
	return &Handler{svc: svc, defaultThreshold: defaultThreshold}
}

func (h *Handler) Routes(r chi.Router) {
	r.Put("/{month}", h.set)
	r.Put("/{month}/categories", h.setCategory)
	r.Get("/{month}/progress", h.progress)
}

type setBudgetRequest struct {
	Total     string   `json:"total"`
	Threshold *float64 `json:"threshold,omitempty"`
}

type budgetResponse struct {
	Month     budget.Month `json:"month"`
	Total     string       `json:"total"`
	Threshold float64      `json:"threshold"`
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	month, err := budget.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req setBudgetRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	total, err := money.ParseCents(req.Total)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	threshold := h.defaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	b, err := h.svc.SetBudget(r.Context(), month, total, threshold)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, budgetResponse{
		Month:     b.Month,
		Total:     money.Format(b.Total),
		Threshold: b.Threshold,
	})
}

type setCategoryRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type itemResponse struct {
	CategoryID int64  `json:"category_id"`
	Amount     string `json:"amount"`
}

// setCategory answers 409 when the month has no budget yet.
func (h *Handler) setCategory(w http.ResponseWriter, r *http.Request) {
	month, err := budget.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req setCategoryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	amount, err := money.ParseCents(req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	item, err := h.svc.SetCategoryBudget(r.Context(), month, req.Category, amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, itemResponse{
		CategoryID: item.CategoryID,
		Amount:     money.Format(item.Amount),
	})
}

type categoryProgressResponse struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Budgeted   string `json:"budgeted"`
	Spent      string `json:"spent"`
}

type progressResponse struct {
	Month      budget.Month               `json:"month"`
	Total      string                     `json:"total"`
	Spent      string                     `json:"spent"`
	UsageRatio float64                    `json:"usage_ratio"`
	Threshold  float64                    `json:"threshold"`
	Warning    bool                       `json:"warning"`
	Categories []categoryProgressResponse `json:"categories"`
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	month, err := budget.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.Progress(r.Context(), month)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := progressResponse{
		Month:      p.Month,
		Total:      money.Format(p.Total),
		Spent:      money.Format(p.Spent),
		UsageRatio: p.UsageRatio,
		Threshold:  p.Threshold,
		Warning:    p.Warning(),
		Categories: make([]categoryProgressResponse, 0, len(p.Categories)),
	}

	for _, c := range p.Categories {
		resp.Categories = append(resp.Categories, categoryProgressResponse{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Budgeted:   money.Format(c.Budgeted),
			Spent:      money.Format(c.Spent),
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}
