package importcsv

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ledger/internal/http/respond"
	"github.com/MrJamesThe3rd/ledger/internal/importer"
	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type entryDTO struct {
	Type          record.Type `json:"type"`
	Amount        string      `json:"amount"`
	Date          string      `json:"date"`
	PaymentMethod string      `json:"payment_method"`
	Category      string      `json:"category,omitempty"`
	Note          string      `json:"note,omitempty"`
}

type previewResponse struct {
	Format    string     `json:"format"`
	Entries   []entryDTO `json:"entries"`
	Suggested int        `json:"suggested"`
	Skipped   int        `json:"skipped"`
}

type importResponse struct {
	Format    string  `json:"format"`
	Imported  int     `json:"imported"`
	IDs       []int64 `json:"ids"`
	Suggested int     `json:"suggested"`
	Skipped   int     `json:"skipped"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	file, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	parsed, suggested, err := h.svc.Preview(r.Context(), file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := previewResponse{
		Format:    parsed.Format,
		Entries:   make([]entryDTO, 0, len(parsed.Entries)),
		Suggested: suggested,
		Skipped:   parsed.Skipped,
	}

	for _, e := range parsed.Entries {
		resp.Entries = append(resp.Entries, entryDTO{
			Type:          e.Type,
			Amount:        money.Format(e.Amount),
			Date:          e.Date.Format(time.DateOnly),
			PaymentMethod: e.PaymentMethod,
			Category:      e.Category,
			Note:          e.Note,
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	file, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.svc.Import(r.Context(), file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	ids := make([]int64, 0, len(res.Imported))
	for _, rec := range res.Imported {
		ids = append(ids, rec.ID)
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Format:    res.Format,
		Imported:  len(ids),
		IDs:       ids,
		Suggested: res.Suggested,
		Skipped:   res.Skipped,
	})
}

func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, false
	}

	return file, true
}
