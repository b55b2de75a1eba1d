package memory

import (
	"context"

	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/ledger"
)

// reader consultas sobre un estado fijo; solo vive dentro de Store.View.
type reader struct {
	st *state
}

func (r *reader) Balance(_ context.Context, ownerID string) (int64, error) {
	return ledger.Balance(r.st.ownerTransactions(ownerID))
}

func (r *reader) RecentItems(_ context.Context, ownerID string, limit int) ([]entity.RecentItem, error) {
	return ledger.RecentItems(r.st.ownerTransactions(ownerID), r.st.names(ownerID), limit), nil
}

func (r *reader) SpendByCategory(_ context.Context, ownerID string) ([]entity.CategorySpend, error) {
	return ledger.SpendByCategory(r.st.ownerTransactions(ownerID), r.st.names(ownerID))
}

func (r *reader) CategoriesWithCounts(_ context.Context, ownerID string) ([]entity.CategoryWithCount, error) {
	counts := make(map[string]int64)
	for _, t := range r.st.ownerTransactions(ownerID) {
		if t.CategoryID != nil {
			counts[*t.CategoryID]++
		}
	}
	rows := make([]entity.CategoryWithCount, 0)
	for id, c := range r.st.categories {
		if c.OwnerID == ownerID {
			rows = append(rows, entity.CategoryWithCount{Category: *c, TxCount: counts[id]})
		}
	}
	ledger.SortCategoryCounts(rows)
	return rows, nil
}

func (r *reader) ListCategories(_ context.Context, ownerID string) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0)
	for _, c := range r.st.categories {
		if c.OwnerID == ownerID {
			out = append(out, copyCategory(c))
		}
	}
	ledger.SortCategories(out)
	return out, nil
}

func (r *reader) ListTransactions(_ context.Context, ownerID string, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	list := ledger.Filter(r.st.ownerTransactions(ownerID), filter)
	out := make([]*entity.Transaction, len(list))
	for i, t := range list {
		out[i] = copyTransaction(t)
	}
	return out, nil
}

func (r *reader) GetTransaction(_ context.Context, ownerID, id string) (*entity.Transaction, error) {
	t := r.st.transaction(ownerID, id)
	if t == nil {
		return nil, nil
	}
	return copyTransaction(t), nil
}
