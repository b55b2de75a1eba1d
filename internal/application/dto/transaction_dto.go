package dto

import (
	"time"

	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/money"
)

// TransactionRequest entrada para crear o reemplazar una transacción.
// Amount es texto libre ("$1,234.56"); Date con formato YYYY-MM-DD (vacío = hoy).
type TransactionRequest struct {
	Amount     string  `json:"amount"`
	Kind       string  `json:"kind"`
	Note       string  `json:"note"`
	Date       string  `json:"date"`
	CategoryID *string `json:"category_id"`
}

// TransactionResponse salida de una transacción; Amount sin signo, el signo lo da Kind.
type TransactionResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	AmountMinor int64     `json:"amount_minor"`
	Amount      string    `json:"amount"`
	Note        string    `json:"note,omitempty"`
	Date        string    `json:"date"`
	CategoryID  *string   `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionListResponse listado filtrado.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Count int                   `json:"count"`
}

func ToTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Kind:        string(t.Kind),
		AmountMinor: t.AmountMinor,
		Amount:      money.Format(t.AmountMinor),
		Note:        t.Note,
		Date:        t.Date.String(),
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt,
	}
}

func ToTransactionListResponse(list []*entity.Transaction) TransactionListResponse {
	items := make([]TransactionResponse, len(list))
	for i, t := range list {
		items[i] = ToTransactionResponse(t)
	}
	return TransactionListResponse{Items: items, Count: len(items)}
}
