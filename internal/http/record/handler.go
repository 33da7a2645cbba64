package record

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ledger/internal/http/respond"
	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

// MaxSearchResults caps a search that does not ask for a limit.
const MaxSearchResults = 200

var errInvalidID = errors.New("invalid id")

type Handler struct {
	svc *record.Service
}

func NewHandler(svc *record.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/recent", h.recent)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createRecordRequest struct {
	Type          record.Type `json:"type"`
	Amount        string      `json:"amount"`
	Date          string      `json:"date"`
	PaymentMethod string      `json:"payment_method"`
	Category      string      `json:"category"`
	Note          string      `json:"note"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	amount, err := money.ParseCents(req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	date, err := record.ParseDate(req.Date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rec, err := h.svc.Add(r.Context(), record.CreateParams{
		Type:          req.Type,
		Amount:        amount,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Category:      req.Category,
		Note:          req.Note,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(rec))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.svc.Search(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(records))
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.svc.ListRecent(r.Context(), limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(records))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateRecordRequest struct {
	Type          *record.Type `json:"type,omitempty"`
	Amount        *string      `json:"amount,omitempty"`
	Date          *string      `json:"date,omitempty"`
	PaymentMethod *string      `json:"payment_method,omitempty"`
	Category      *string      `json:"category,omitempty"`
	ClearCategory bool         `json:"clear_category,omitempty"`
	Note          *string      `json:"note,omitempty"`
}

func (req updateRecordRequest) params() (record.UpdateParams, error) {
	params := record.UpdateParams{
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Category:      req.Category,
		ClearCategory: req.ClearCategory,
		Note:          req.Note,
	}

	if req.Amount != nil {
		amount, err := money.ParseCents(*req.Amount)
		if err != nil {
			return params, err
		}

		params.Amount = &amount
	}

	if req.Date != nil {
		date, err := record.ParseDate(*req.Date)
		if err != nil {
			return params, err
		}

		params.Date = &date
	}

	return params, nil
}

// update changes only the fields present in the body. Updating a missing
// record is not an error.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req updateRecordRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params, err := req.params()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Update(r.Context(), id, params); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}

	return id, nil
}

// parseFilter reads search predicates from the query string. Amounts are
// decimal strings and dates are YYYY-MM-DD.
func parseFilter(q url.Values) (record.Filter, error) {
	filter := record.Filter{
		Keyword: q.Get("keyword"),
		Order:   record.Order(q.Get("order")),
		Limit:   MaxSearchResults,
	}

	if s := q.Get("min_amount"); s != "" {
		v, err := money.ParseCents(s)
		if err != nil {
			return filter, fmt.Errorf("min_amount: %w", err)
		}

		filter.MinAmount = &v
	}

	if s := q.Get("max_amount"); s != "" {
		v, err := money.ParseCents(s)
		if err != nil {
			return filter, fmt.Errorf("max_amount: %w", err)
		}

		filter.MaxAmount = &v
	}

	if s := q.Get("start_date"); s != "" {
		t, err := record.ParseDate(s)
		if err != nil {
			return filter, fmt.Errorf("start_date: %w", err)
		}

		filter.Start = &t
	}

	if s := q.Get("end_date"); s != "" {
		t, err := record.ParseDate(s)
		if err != nil {
			return filter, fmt.Errorf("end_date: %w", err)
		}

		filter.End = &t
	}

	for key, dst := range map[string]**int64{
		"category_id":       &filter.CategoryID,
		"payment_method_id": &filter.PaymentMethodID,
	} {
		if s := q.Get(key); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return filter, fmt.Errorf("%s: %w", key, errInvalidID)
			}

			*dst = &v
		}
	}

	if s := q.Get("type"); s != "" {
		t, err := record.ParseType(s)
		if err != nil {
			return filter, err
		}

		filter.Type = &t
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return filter, fmt.Errorf("limit: %w", err)
		}

		filter.Limit = n
	}

	return filter, nil
}
