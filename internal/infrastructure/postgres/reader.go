package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

var _ repository.LedgerReader = (*Reader)(nil)

// Reader consultas agregadas del libro. Dentro de Store.View todas ven el mismo snapshot.
type Reader struct {
	q Querier
}

// NewReader construye el lector sobre pool o tx.
func NewReader(q Querier) *Reader {
	return &Reader{q: q}
}

// minorUnits convierte la suma NUMERIC a centavos; falla si no cabe en int64.
func minorUnits(d decimal.Decimal) (int64, error) {
	b := d.BigInt()
	if !b.IsInt64() {
		return 0, domain.NewStorageError("sum", fmt.Errorf("%w: %s", ledger.ErrSumOverflow, d))
	}
	return b.Int64(), nil
}

// Balance SUM sobre BIGINT devuelve NUMERIC; se lee como decimal.
func (r *Reader) Balance(ctx context.Context, ownerID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'INCOME' THEN amount_minor ELSE -amount_minor END), 0)
		FROM transactions WHERE owner_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, ownerID).Scan(&total); err != nil {
		return 0, storageErr("balance", err)
	}
	return minorUnits(total)
}

func (r *Reader) RecentItems(ctx context.Context, ownerID string, limit int) ([]entity.RecentItem, error) {
	if limit <= 0 {
		return []entity.RecentItem{}, nil
	}
	query := `
		SELECT t.id::text, t.kind, t.amount_minor, t.date_epoch_day, t.note, t.category_id::text, c.name
		FROM transactions t
		LEFT JOIN categories c ON c.owner_id = t.owner_id AND c.id = t.category_id
		WHERE t.owner_id = $1
		ORDER BY t.date_epoch_day DESC, t.id DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, storageErr("recent items", err)
	}
	defer rows.Close()

	items := make([]entity.RecentItem, 0, limit)
	for rows.Next() {
		var it entity.RecentItem
		var name *string
		if err := rows.Scan(&it.TransactionID, &it.Kind, &it.AmountMinor, &it.Date, &it.Note, &it.CategoryID, &name); err != nil {
			return nil, storageErr("scan recent item", err)
		}
		it.CategoryName = entity.UncategorizedLabel
		if name != nil {
			it.CategoryName = *name
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("recent items", err)
	}
	return items, nil
}

// SpendByCategory agrupa por categoría viva; las referencias nulas caen en el grupo sin categoría (c.id NULL).
func (r *Reader) SpendByCategory(ctx context.Context, ownerID string) ([]entity.CategorySpend, error) {
	query := `
		SELECT c.id::text, c.name, SUM(t.amount_minor) AS spend
		FROM transactions t
		LEFT JOIN categories c ON c.owner_id = t.owner_id AND c.id = t.category_id
		WHERE t.owner_id = $1 AND t.kind = 'EXPENSE'
		GROUP BY c.id, c.name
		HAVING SUM(t.amount_minor) > 0
		ORDER BY spend DESC, c.id ASC NULLS LAST`
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, storageErr("spend by category", err)
	}
	defer rows.Close()

	out := make([]entity.CategorySpend, 0)
	for rows.Next() {
		var (
			id    *string
			name  *string
			spend decimal.Decimal
		)
		if err := rows.Scan(&id, &name, &spend); err != nil {
			return nil, storageErr("scan spend", err)
		}
		minor, err := minorUnits(spend)
		if err != nil {
			return nil, err
		}
		row := entity.CategorySpend{CategoryID: id, Label: entity.UncategorizedLabel, SpendMinor: minor}
		if name != nil {
			row.Label = *name
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("spend by category", err)
	}
	return ledger.RankSpending(out), nil
}

func (r *Reader) CategoriesWithCounts(ctx context.Context, ownerID string) ([]entity.CategoryWithCount, error) {
	query := `
		SELECT c.id::text, c.owner_id, c.name, c.name_key, c.created_at, COUNT(t.id)
		FROM categories c
		LEFT JOIN transactions t ON t.owner_id = c.owner_id AND t.category_id = c.id
		WHERE c.owner_id = $1
		GROUP BY c.id
		ORDER BY c.name_key COLLATE "C", c.id`
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, storageErr("categories with counts", err)
	}
	defer rows.Close()

	out := make([]entity.CategoryWithCount, 0)
	for rows.Next() {
		var row entity.CategoryWithCount
		if err := rows.Scan(&row.ID, &row.OwnerID, &row.Name, &row.NameKey, &row.CreatedAt, &row.TxCount); err != nil {
			return nil, storageErr("scan category count", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("categories with counts", err)
	}
	return out, nil
}

func (r *Reader) ListCategories(ctx context.Context, ownerID string) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE owner_id = $1 ORDER BY name_key COLLATE "C", id`
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	out := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, storageErr("scan category", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return out, nil
}

var orderClauses = map[entity.SortOrder]string{
	entity.SortNewest:     "date_epoch_day DESC, id DESC",
	entity.SortOldest:     "date_epoch_day ASC, id ASC",
	entity.SortAmountDesc: "amount_minor DESC, id DESC",
	entity.SortAmountAsc:  "amount_minor ASC, id ASC",
}

// ListTransactions arma la consulta a partir del filtro; los campos vacíos no filtran.
func (r *Reader) ListTransactions(ctx context.Context, ownerID string, f entity.TransactionFilter) ([]*entity.Transaction, error) {
	where := []string{"owner_id = $1"}
	args := []any{ownerID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	switch f.Kind {
	case entity.KindFilterIncome:
		add("kind = $%d", string(entity.KindIncome))
	case entity.KindFilterExpense:
		add("kind = $%d", string(entity.KindExpense))
	}
	if f.UncategorizedOnly {
		where = append(where, "category_id IS NULL")
	}
	if f.CategoryID != nil {
		if !validID(*f.CategoryID) {
			return []*entity.Transaction{}, nil
		}
		add("category_id = $%d", *f.CategoryID)
	}
	if f.From != nil {
		add("date_epoch_day >= $%d", int64(*f.From))
	}
	if f.To != nil {
		add("date_epoch_day <= $%d", int64(*f.To))
	}
	order, ok := orderClauses[f.Sort]
	if !ok {
		order = orderClauses[entity.SortNewest]
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY ` + order
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	defer rows.Close()

	out := make([]*entity.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storageErr("scan transaction", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list transactions", err)
	}
	return out, nil
}

func (r *Reader) GetTransaction(ctx context.Context, ownerID, id string) (*entity.Transaction, error) {
	return getTransaction(ctx, r.q, ownerID, id)
}
