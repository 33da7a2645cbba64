package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ledger/internal/export"
	"github.com/MrJamesThe3rd/ledger/internal/http/respond"
	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Get("/summary", h.summary)
}

// dateFilter reads the optional start_date and end_date query parameters.
func dateFilter(r *http.Request) (record.Filter, error) {
	var filter record.Filter

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := record.ParseDate(s)
		if err != nil {
			return filter, err
		}

		filter.Start = &t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := record.ParseDate(s)
		if err != nil {
			return filter, err
		}

		filter.End = &t
	}

	return filter, nil
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	format := export.FormatCSV
	if s := r.URL.Query().Get("format"); s != "" {
		f, err := export.ParseFormat(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		format = f
	}

	filter, err := dateFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	// Load before writing headers so a failure can still produce an error status.
	rows, err := h.svc.Rows(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"records_%s.%s\"", time.Now().Format("20060102"), format))

	write := export.WriteCSV
	if format == export.FormatXLSX {
		write = export.WriteXLSX
	}

	if err := write(w, rows); err != nil {
		slog.Error("failed to write export", "format", format, "error", err)
	}
}

type summaryResponse struct {
	Count   int    `json:"count"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
	Text    string `json:"text"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := dateFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rows, err := h.svc.Rows(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	s := export.Summarize(rows)

	respond.JSON(w, http.StatusOK, summaryResponse{
		Count:   s.Count,
		Income:  money.Format(s.Income),
		Expense: money.Format(s.Expense),
		Net:     money.Format(s.Net()),
		Text:    s.String(),
	})
}
