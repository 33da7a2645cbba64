package record

import (
	"time"

	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

type recordResponse struct {
	ID              int64       `json:"id"`
	Type            record.Type `json:"type"`
	Amount          string      `json:"amount"`
	AmountCents     int64       `json:"amount_cents"`
	Date            string      `json:"date"`
	PaymentMethodID int64       `json:"payment_method_id"`
	CategoryID      *int64      `json:"category_id"`
	Note            string      `json:"note"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func toResponse(r *record.Record) recordResponse {
	return recordResponse{
		ID:              r.ID,
		Type:            r.Type,
		Amount:          money.Format(r.Amount),
		AmountCents:     r.Amount,
		Date:            r.Date.Format(time.DateOnly),
		PaymentMethodID: r.PaymentMethodID,
		CategoryID:      r.CategoryID,
		Note:            r.Note,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toResponseList(rs []*record.Record) []recordResponse {
	resp := make([]recordResponse, len(rs))
	for i, r := range rs {
		resp[i] = toResponse(r)
	}

	return resp
}
