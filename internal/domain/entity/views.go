package entity

import "github.com/shopspring/decimal"

// UncategorizedLabel nombre mostrado para transacciones sin categoría (o con referencia colgante).
const UncategorizedLabel = "Uncategorized"

// RecentItem transacción enriquecida con el nombre de su categoría.
type RecentItem struct {
	TransactionID string
	Kind          Kind
	AmountMinor   int64
	Date          Day
	Note          string
	CategoryID    *string
	CategoryName  string
}

// CategorySpend gasto acumulado de una categoría. CategoryID nil = grupo "Uncategorized".
type CategorySpend struct {
	CategoryID *string
	Label      string
	SpendMinor int64
}

// CategoryWithCount categoría viva con el número de transacciones que la referencian.
type CategoryWithCount struct {
	Category
	TxCount int64
}

// SpendShare porción del gráfico de gasto: Share es el porcentaje del total con un decimal.
type SpendShare struct {
	CategorySpend
	Share decimal.Decimal
}

// DashboardSnapshot vistas derivadas calculadas sobre un mismo estado del libro.
type DashboardSnapshot struct {
	OwnerID         string
	BalanceMinor    int64
	Recent          []RecentItem
	Spending        []SpendShare
	TotalSpendMinor int64
}

// KindFilter filtro por tipo para listados.
type KindFilter string

const (
	KindFilterAll     KindFilter = "ALL"
	KindFilterIncome  KindFilter = "INCOME"
	KindFilterExpense KindFilter = "EXPENSE"
)

// SortOrder orden de listados de transacciones.
type SortOrder string

const (
	SortNewest     SortOrder = "NEWEST"      // fecha desc, id desc
	SortOldest     SortOrder = "OLDEST"      // fecha asc, id asc
	SortAmountDesc SortOrder = "AMOUNT_DESC" // monto desc, id desc
	SortAmountAsc  SortOrder = "AMOUNT_ASC"  // monto asc, id asc
)

// TransactionFilter criterios de listado. Los campos vacíos no filtran.
type TransactionFilter struct {
	Kind              KindFilter
	CategoryID        *string
	UncategorizedOnly bool
	From              *Day // inclusivo
	To                *Day // inclusivo
	Sort              SortOrder
	Limit             int // 0 = sin límite
}

// Matches indica si t cumple el filtro (sin considerar orden ni límite).
func (f TransactionFilter) Matches(t *Transaction) bool {
	switch f.Kind {
	case KindFilterIncome:
		if t.Kind != KindIncome {
			return false
		}
	case KindFilterExpense:
		if t.Kind != KindExpense {
			return false
		}
	}
	if f.UncategorizedOnly && t.CategoryID != nil {
		return false
	}
	if f.CategoryID != nil && !t.HasCategory(*f.CategoryID) {
		return false
	}
	if f.From != nil && t.Date < *f.From {
		return false
	}
	if f.To != nil && t.Date > *f.To {
		return false
	}
	return true
}
