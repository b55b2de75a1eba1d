package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/money"
)

// DashboardResponse respuesta de GET /api/dashboard y de cada evento del stream.
// Balance con signo explícito ("+1234.56" / "-12.00").
type DashboardResponse struct {
	Balance         string               `json:"balance"`
	BalanceMinor    int64                `json:"balance_minor"`
	Recent          []RecentItemResponse `json:"recent"`
	Spending        []SpendSliceResponse `json:"spending"`
	TotalSpend      string               `json:"total_spend"`
	TotalSpendMinor int64                `json:"total_spend_minor"`
}

// RecentItemResponse transacción reciente con nombre de categoría.
type RecentItemResponse struct {
	TransactionID string  `json:"transaction_id"`
	Kind          string  `json:"kind"`
	Amount        string  `json:"amount"`
	AmountMinor   int64   `json:"amount_minor"`
	Date          string  `json:"date"`
	Note          string  `json:"note,omitempty"`
	CategoryID    *string `json:"category_id"`
	CategoryName  string  `json:"category_name"`
}

// SpendSliceResponse porción del gráfico de gasto. SharePercent con un decimal.
type SpendSliceResponse struct {
	CategoryID   *string         `json:"category_id"`
	Label        string          `json:"label"`
	Amount       string          `json:"amount"`
	AmountMinor  int64           `json:"amount_minor"`
	SharePercent decimal.Decimal `json:"share_percent"`
}

func ToRecentItemResponse(it entity.RecentItem) RecentItemResponse {
	return RecentItemResponse{
		TransactionID: it.TransactionID,
		Kind:          string(it.Kind),
		Amount:        money.Format(it.AmountMinor),
		AmountMinor:   it.AmountMinor,
		Date:          it.Date.String(),
		Note:          it.Note,
		CategoryID:    it.CategoryID,
		CategoryName:  it.CategoryName,
	}
}

func ToDashboardResponse(d *entity.DashboardSnapshot) DashboardResponse {
	recent := make([]RecentItemResponse, len(d.Recent))
	for i, it := range d.Recent {
		recent[i] = ToRecentItemResponse(it)
	}
	spending := make([]SpendSliceResponse, len(d.Spending))
	for i, s := range d.Spending {
		spending[i] = SpendSliceResponse{
			CategoryID:   s.CategoryID,
			Label:        s.Label,
			Amount:       money.Format(s.SpendMinor),
			AmountMinor:  s.SpendMinor,
			SharePercent: s.Share,
		}
	}
	return DashboardResponse{
		Balance:         money.FormatSigned(d.BalanceMinor),
		BalanceMinor:    d.BalanceMinor,
		Recent:          recent,
		Spending:        spending,
		TotalSpend:      money.Format(d.TotalSpendMinor),
		TotalSpendMinor: d.TotalSpendMinor,
	}
}
