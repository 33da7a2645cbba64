// Package respond writes JSON bodies and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/ledger/internal/budget"
	"github.com/MrJamesThe3rd/ledger/internal/category"
	"github.com/MrJamesThe3rd/ledger/internal/importer/csvbill"
	"github.com/MrJamesThe3rd/ledger/internal/matching"
	"github.com/MrJamesThe3rd/ledger/internal/payment"
	"github.com/MrJamesThe3rd/ledger/internal/record"
	"github.com/MrJamesThe3rd/ledger/internal/stats"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON request body, writing a 400 and returning false on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}

var badRequest = []error{
	record.ErrInvalidType,
	record.ErrInvalidAmount,
	record.ErrInvalidDate,
	budget.ErrInvalidMonth,
	budget.ErrInvalidThreshold,
	category.ErrEmptyName,
	payment.ErrEmptyName,
	stats.ErrInvalidDimension,
	stats.ErrInvalidRange,
	matching.ErrEmptyPattern,
	csvbill.ErrUnknownFormat,
}

var conflict = []error{
	budget.ErrBudgetNotSet,
	payment.ErrInUse,
}

func Status(err error) int {
	if errors.Is(err, record.ErrNotFound) {
		return http.StatusNotFound
	}

	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	for _, target := range conflict {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}

// Error writes err with the status it maps to. Internal errors are logged
// and their text is not sent to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}
