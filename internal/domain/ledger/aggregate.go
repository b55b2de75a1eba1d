// Package ledger contiene los servicios de dominio puros del libro: orden determinista y agregaciones.
package ledger

import (
	"errors"
	"math"
	"sort"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

// ErrSumOverflow la suma no cabe en int64.
var ErrSumOverflow = errors.New("suma fuera de rango")

// AddMinor suma centavos detectando desbordamiento.
func AddMinor(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, domain.NewStorageError("sum", ErrSumOverflow)
	}
	return a + b, nil
}

// Balance suma con signo sobre las transacciones dadas.
func Balance(txs []*entity.Transaction) (int64, error) {
	var total int64
	for _, t := range txs {
		var err error
		if total, err = AddMinor(total, t.Signed()); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Less orden de transacciones según SortOrder; el desempate por id lo hace determinista.
func Less(order entity.SortOrder, a, b *entity.Transaction) bool {
	switch order {
	case entity.SortOldest:
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.ID < b.ID
	case entity.SortAmountDesc:
		if a.AmountMinor != b.AmountMinor {
			return a.AmountMinor > b.AmountMinor
		}
		return a.ID > b.ID
	case entity.SortAmountAsc:
		if a.AmountMinor != b.AmountMinor {
			return a.AmountMinor < b.AmountMinor
		}
		return a.ID < b.ID
	default:
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.ID > b.ID
	}
}

// SortTransactions ordena in situ.
func SortTransactions(txs []*entity.Transaction, order entity.SortOrder) {
	sort.SliceStable(txs, func(i, j int) bool { return Less(order, txs[i], txs[j]) })
}

// SortRecent ordena por (fecha desc, id desc).
func SortRecent(items []entity.RecentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date > items[j].Date
		}
		return items[i].TransactionID > items[j].TransactionID
	})
}

// RankSpending descarta grupos con gasto <= 0 y ordena por gasto desc.
// Empates: por id de categoría asc, el grupo "Uncategorized" al final.
func RankSpending(rows []entity.CategorySpend) []entity.CategorySpend {
	out := make([]entity.CategorySpend, 0, len(rows))
	for _, r := range rows {
		if r.SpendMinor > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SpendMinor != b.SpendMinor {
			return a.SpendMinor > b.SpendMinor
		}
		switch {
		case a.CategoryID == nil:
			return false
		case b.CategoryID == nil:
			return true
		default:
			return *a.CategoryID < *b.CategoryID
		}
	})
	return out
}

// SortCategoryCounts ordena por nombre sin distinguir mayúsculas y luego id.
func SortCategoryCounts(rows []entity.CategoryWithCount) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].NameKey != rows[j].NameKey {
			return rows[i].NameKey < rows[j].NameKey
		}
		return rows[i].ID < rows[j].ID
	})
}

// SortCategories ordena por nombre sin distinguir mayúsculas y luego id.
func SortCategories(cats []*entity.Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].NameKey != cats[j].NameKey {
			return cats[i].NameKey < cats[j].NameKey
		}
		return cats[i].ID < cats[j].ID
	})
}

// SpendByCategory agrupa los gastos por categoría viva; las referencias nulas o colgantes van al grupo
// "Uncategorized". names mapea id de categoría viva -> nombre.
func SpendByCategory(txs []*entity.Transaction, names map[string]string) ([]entity.CategorySpend, error) {
	groups := make(map[string]*entity.CategorySpend)
	var uncategorized *entity.CategorySpend
	for _, t := range txs {
		if t.Kind != entity.KindExpense {
			continue
		}
		var g *entity.CategorySpend
		if t.CategoryID != nil {
			if name, ok := names[*t.CategoryID]; ok {
				var found bool
				if g, found = groups[*t.CategoryID]; !found {
					id := *t.CategoryID
					g = &entity.CategorySpend{CategoryID: &id, Label: name}
					groups[id] = g
				}
			}
		}
		if g == nil {
			if uncategorized == nil {
				uncategorized = &entity.CategorySpend{Label: entity.UncategorizedLabel}
			}
			g = uncategorized
		}
		sum, err := AddMinor(g.SpendMinor, t.AmountMinor)
		if err != nil {
			return nil, err
		}
		g.SpendMinor = sum
	}
	rows := make([]entity.CategorySpend, 0, len(groups)+1)
	for _, g := range groups {
		rows = append(rows, *g)
	}
	if uncategorized != nil {
		rows = append(rows, *uncategorized)
	}
	return RankSpending(rows), nil
}

// RecentItems toma las limit transacciones más recientes y las enriquece con el nombre de categoría.
// Con limit <= 0 no devuelve nada.
func RecentItems(txs []*entity.Transaction, names map[string]string, limit int) []entity.RecentItem {
	if limit <= 0 {
		return []entity.RecentItem{}
	}
	sorted := append([]*entity.Transaction(nil), txs...)
	SortTransactions(sorted, entity.SortNewest)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	items := make([]entity.RecentItem, 0, len(sorted))
	for _, t := range sorted {
		name := entity.UncategorizedLabel
		if t.CategoryID != nil {
			if n, ok := names[*t.CategoryID]; ok {
				name = n
			}
		}
		items = append(items, entity.RecentItem{
			TransactionID: t.ID,
			Kind:          t.Kind,
			AmountMinor:   t.AmountMinor,
			Date:          t.Date,
			Note:          t.Note,
			CategoryID:    t.CategoryID,
			CategoryName:  name,
		})
	}
	return items
}

// Filter aplica filtro, orden y límite.
func Filter(txs []*entity.Transaction, f entity.TransactionFilter) []*entity.Transaction {
	out := make([]*entity.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	SortTransactions(out, f.Sort)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
