package ledger_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/ledger"
)

func ptr(s string) *string { return &s }

func tx(id string, day entity.Day, kind entity.Kind, amount int64, cat *string) *entity.Transaction {
	return &entity.Transaction{ID: id, OwnerID: "u1", Date: day, Kind: kind, AmountMinor: amount, CategoryID: cat}
}

// Con fechas [10, 10, 9] e ids [5, 6, 7] y límite 2: [(10,6), (10,5)].
func TestRecentItems_DesempatePorID(t *testing.T) {
	txs := []*entity.Transaction{
		tx("5", 10, entity.KindExpense, 100, nil),
		tx("6", 10, entity.KindExpense, 100, nil),
		tx("7", 9, entity.KindExpense, 100, nil),
	}
	items := ledger.RecentItems(txs, nil, 2)
	require.Len(t, items, 2)
	assert.Equal(t, "6", items[0].TransactionID)
	assert.Equal(t, entity.Day(10), items[0].Date)
	assert.Equal(t, "5", items[1].TransactionID)
}

func TestRecentItems_NombreDeCategoria(t *testing.T) {
	txs := []*entity.Transaction{
		tx("a", 1, entity.KindIncome, 100, ptr("c1")),
		tx("b", 2, entity.KindExpense, 100, ptr("gone")),
		tx("c", 3, entity.KindExpense, 100, nil),
	}
	items := ledger.RecentItems(txs, map[string]string{"c1": "Food"}, 10)
	require.Len(t, items, 3)
	assert.Equal(t, entity.UncategorizedLabel, items[0].CategoryName)
	assert.Equal(t, entity.UncategorizedLabel, items[1].CategoryName, "referencia colgante")
	assert.Equal(t, "Food", items[2].CategoryName)
}

func TestRecentItems_LimiteNoPositivo(t *testing.T) {
	txs := []*entity.Transaction{tx("a", 1, entity.KindIncome, 100, nil)}
	assert.Empty(t, ledger.RecentItems(txs, nil, 0))
	items := ledger.RecentItems(txs, nil, -1)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBalance_IndependienteDelOrden(t *testing.T) {
	a := []*entity.Transaction{
		tx("1", 1, entity.KindIncome, 1000, nil),
		tx("2", 1, entity.KindExpense, 2500, nil),
		tx("3", 1, entity.KindIncome, 300, nil),
	}
	b := []*entity.Transaction{a[2], a[0], a[1]}
	balA, err := ledger.Balance(a)
	require.NoError(t, err)
	assert.Equal(t, int64(-1200), balA)
	balB, err := ledger.Balance(b)
	require.NoError(t, err)
	assert.Equal(t, balA, balB)
}

func TestBalance_Desbordamiento(t *testing.T) {
	big := int64(math.MaxInt64)
	_, err := ledger.Balance([]*entity.Transaction{
		tx("1", 1, entity.KindIncome, big, nil),
		tx("2", 1, entity.KindIncome, big, nil),
	})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, ledger.ErrSumOverflow)

	_, err = ledger.Balance([]*entity.Transaction{
		tx("1", 1, entity.KindExpense, big, nil),
		tx("2", 1, entity.KindExpense, big, nil),
	})
	assert.ErrorIs(t, err, ledger.ErrSumOverflow)

	bal, err := ledger.Balance([]*entity.Transaction{
		tx("1", 1, entity.KindIncome, big, nil),
		tx("2", 1, entity.KindExpense, big, nil),
	})
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestSpendByCategory_Desbordamiento(t *testing.T) {
	big := int64(math.MaxInt64)
	_, err := ledger.SpendByCategory([]*entity.Transaction{
		tx("1", 1, entity.KindExpense, big, nil),
		tx("2", 1, entity.KindExpense, big, nil),
	}, nil)
	assert.ErrorIs(t, err, ledger.ErrSumOverflow)

	_, err = ledger.SpendByCategory([]*entity.Transaction{
		tx("1", 1, entity.KindExpense, big, ptr("c1")),
		tx("2", 1, entity.KindExpense, 1, ptr("c1")),
	}, map[string]string{"c1": "Food"})
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestAddMinor(t *testing.T) {
	sum, err := ledger.AddMinor(math.MaxInt64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), sum)

	sum, err = ledger.AddMinor(math.MinInt64+1, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), sum)

	_, err = ledger.AddMinor(math.MinInt64, -1)
	assert.ErrorIs(t, err, ledger.ErrSumOverflow)
}

func TestSpendByCategory_ExcluyeCerosYOrdena(t *testing.T) {
	names := map[string]string{"c1": "Food", "c2": "Rent", "c3": "Fun", "c4": "Empty"}
	txs := []*entity.Transaction{
		tx("1", 1, entity.KindExpense, 500, ptr("c1")),
		tx("2", 1, entity.KindExpense, 900, ptr("c2")),
		tx("3", 1, entity.KindExpense, 500, ptr("c3")),
		tx("4", 1, entity.KindIncome, 9999, ptr("c4")),
		tx("5", 1, entity.KindExpense, 200, nil),
		tx("6", 1, entity.KindExpense, 300, ptr("dangling")),
	}
	rows, err := ledger.SpendByCategory(txs, names)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Rent", rows[0].Label)
	assert.Equal(t, int64(900), rows[0].SpendMinor)
	// empate 500: c1 antes que c3 (id asc); "Uncategorized" (500 = 200 + 300) al final del empate
	assert.Equal(t, "Food", rows[1].Label)
	assert.Equal(t, "Fun", rows[2].Label)
	assert.Equal(t, entity.UncategorizedLabel, rows[3].Label)
	assert.Nil(t, rows[3].CategoryID)
	assert.Equal(t, int64(500), rows[3].SpendMinor)
}

func TestRankSpending_DescartaNoPositivos(t *testing.T) {
	rows := ledger.RankSpending([]entity.CategorySpend{
		{CategoryID: ptr("a"), Label: "A", SpendMinor: 0},
		{CategoryID: ptr("b"), Label: "B", SpendMinor: -5},
		{CategoryID: ptr("c"), Label: "C", SpendMinor: 1},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "C", rows[0].Label)
}

func TestFilter_TipoRangoYOrden(t *testing.T) {
	from, to := entity.Day(2), entity.Day(3)
	txs := []*entity.Transaction{
		tx("1", 1, entity.KindExpense, 100, nil),
		tx("2", 2, entity.KindExpense, 300, ptr("c1")),
		tx("3", 3, entity.KindExpense, 200, nil),
		tx("4", 3, entity.KindIncome, 900, nil),
	}
	got := ledger.Filter(txs, entity.TransactionFilter{
		Kind: entity.KindFilterExpense, From: &from, To: &to, Sort: entity.SortAmountAsc,
	})
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	got = ledger.Filter(txs, entity.TransactionFilter{UncategorizedOnly: true, Sort: entity.SortOldest, Limit: 2})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	got = ledger.Filter(txs, entity.TransactionFilter{CategoryID: ptr("c1")})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}
