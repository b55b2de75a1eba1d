package ledger_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
	"github.com/jhoicas/finanzas-api/internal/infrastructure/memory"
)

type fixture struct {
	store *memory.Store
	cats  *ledger.CategoryUseCase
	txs   *ledger.TransactionUseCase
}

func newFixture() *fixture {
	st := memory.New(nil)
	return &fixture{
		store: st,
		cats:  ledger.NewCategoryUseCase(st, zerolog.Nop()),
		txs:   ledger.NewTransactionUseCase(st, zerolog.Nop()),
	}
}

func (f *fixture) addCategory(t *testing.T, owner, name string) *entity.Category {
	t.Helper()
	c, err := f.cats.AddCategory(context.Background(), owner, name)
	require.NoError(t, err)
	return c
}

func (f *fixture) addTx(t *testing.T, owner, amount string, kind entity.Kind, day entity.Day, cat *entity.Category) *entity.Transaction {
	t.Helper()
	in := ledger.TransactionInput{Amount: amount, Kind: kind, Date: day}
	if cat != nil {
		id := cat.ID
		in.CategoryID = &id
	}
	tx, err := f.txs.AddTransaction(context.Background(), owner, in)
	require.NoError(t, err)
	return tx
}

func (f *fixture) list(t *testing.T, owner string) []*entity.Transaction {
	t.Helper()
	var out []*entity.Transaction
	require.NoError(t, f.store.View(context.Background(), func(r repository.LedgerReader) error {
		var err error
		out, err = r.ListTransactions(context.Background(), owner, entity.TransactionFilter{})
		return err
	}))
	return out
}

func (f *fixture) counts(t *testing.T, owner string) map[string]int64 {
	t.Helper()
	out := make(map[string]int64)
	require.NoError(t, f.store.View(context.Background(), func(r repository.LedgerReader) error {
		rows, err := r.CategoriesWithCounts(context.Background(), owner)
		for _, row := range rows {
			out[row.ID] = row.TxCount
		}
		return err
	}))
	return out
}

func TestAddCategory_NombreDuplicadoSinDistinguirMayusculas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c := f.addCategory(t, "u1", "Food")
	assert.Equal(t, "Food", c.Name)

	_, err := f.cats.AddCategory(ctx, "u1", "food ")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = f.cats.AddCategory(ctx, "u2", "Food")
	assert.NoError(t, err, "otro dueño puede usar el mismo nombre")
}

func TestAddCategory_NombreVacio(t *testing.T) {
	f := newFixture()
	_, err := f.cats.AddCategory(context.Background(), "u1", "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.cats.AddCategory(context.Background(), " ", "Food")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRenameCategory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	food := f.addCategory(t, "u1", "Food")
	f.addCategory(t, "u1", "Rent")

	renamed, err := f.cats.RenameCategory(ctx, "u1", food.ID, " FOOD ")
	require.NoError(t, err, "renombrar a sí misma con otras mayúsculas")
	assert.Equal(t, "FOOD", renamed.Name)

	_, err = f.cats.RenameCategory(ctx, "u1", food.ID, "rent")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = f.cats.RenameCategory(ctx, "u1", "no-existe", "X")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.cats.RenameCategory(ctx, "u2", food.ID, "X")
	assert.ErrorIs(t, err, domain.ErrNotFound, "categoría de otro dueño")
}

func TestDeleteCategory_DeleteTransactions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	food := f.addCategory(t, "u1", "Food")
	f.addTx(t, "u1", "10", entity.KindExpense, 1, food)
	f.addTx(t, "u1", "20", entity.KindExpense, 2, food)
	keep := f.addTx(t, "u1", "5", entity.KindIncome, 3, nil)

	res, err := f.cats.DeleteCategory(ctx, "u1", food.ID, ledger.PolicyDeleteTransactions, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Affected)

	txs := f.list(t, "u1")
	require.Len(t, txs, 1)
	assert.Equal(t, keep.ID, txs[0].ID)
	_, ok := f.counts(t, "u1")[food.ID]
	assert.False(t, ok)
}

func TestDeleteCategory_Uncategorize(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	food := f.addCategory(t, "u1", "Food")
	a := f.addTx(t, "u1", "10", entity.KindExpense, 1, food)
	b := f.addTx(t, "u1", "20", entity.KindExpense, 2, food)

	res, err := f.cats.DeleteCategory(ctx, "u1", food.ID, ledger.PolicyUncategorize, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Affected)

	txs := f.list(t, "u1")
	require.Len(t, txs, 2)
	ids := []string{txs[0].ID, txs[1].ID}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
	for _, tx := range txs {
		assert.Nil(t, tx.CategoryID)
	}
}

func TestDeleteCategory_Move(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	food := f.addCategory(t, "u1", "Food")
	groceries := f.addCategory(t, "u1", "Groceries")
	f.addTx(t, "u1", "10", entity.KindExpense, 1, food)
	f.addTx(t, "u1", "20", entity.KindExpense, 2, food)
	f.addTx(t, "u1", "30", entity.KindExpense, 2, groceries)
	before := f.counts(t, "u1")[groceries.ID]

	target := groceries.ID
	res, err := f.cats.DeleteCategory(ctx, "u1", food.ID, ledger.PolicyMove, &target)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Affected)

	after := f.counts(t, "u1")
	assert.Equal(t, before+res.Affected, after[groceries.ID])
	for _, tx := range f.list(t, "u1") {
		assert.True(t, tx.HasCategory(groceries.ID))
	}
}

func TestDeleteCategory_ArgumentosDePolitica(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	food := f.addCategory(t, "u1", "Food")
	f.addTx(t, "u1", "10", entity.KindExpense, 1, food)
	foreign := f.addCategory(t, "u2", "Other")

	_, err := f.cats.DeleteCategory(ctx, "u1", food.ID, ledger.PolicyMove, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyArgument, "MOVE sin destino")

	self := food.ID
	_, err = f.cats.DeleteCategory(ctx, "u1", food.ID, ledger.PolicyMove, &self)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyArgument, "destino igual a la categoría")

	missing := "no-existe"
	_, err = f.cats.DeleteCategory(ctx, "u1", food.ID, ledger.PolicyMove, &missing)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyArgument)

	other := foreign.ID
	_, err = f.cats.DeleteCategory(ctx, "u1", food.ID, ledger.PolicyMove, &other)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyArgument, "destino de otro dueño")

	_, err = f.cats.DeleteCategory(ctx, "u1", food.ID, ledger.PolicyUncategorize, &other)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyArgument, "destino con política sin destino")

	_, err = f.cats.DeleteCategory(ctx, "u1", food.ID, ledger.DeletePolicy("ARCHIVE"), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.cats.DeleteCategory(ctx, "u1", "no-existe", ledger.PolicyUncategorize, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// nada cambió
	txs := f.list(t, "u1")
	require.Len(t, txs, 1)
	assert.True(t, txs[0].HasCategory(food.ID))
}

func TestClearAll_AisladoPorDueno(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c1 := f.addCategory(t, "u1", "Food")
	f.addTx(t, "u1", "10", entity.KindExpense, 1, c1)
	f.addTx(t, "u1", "10", entity.KindIncome, 1, nil)
	c2 := f.addCategory(t, "u2", "Food")
	f.addTx(t, "u2", "7", entity.KindExpense, 1, c2)

	res, err := f.cats.ClearAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Transactions)
	assert.Equal(t, int64(1), res.Categories)

	assert.Empty(t, f.list(t, "u1"))
	assert.Empty(t, f.counts(t, "u1"))
	assert.Len(t, f.list(t, "u2"), 1)
	assert.Equal(t, int64(1), f.counts(t, "u2")[c2.ID])
}

func TestParsePolicy(t *testing.T) {
	p, err := ledger.ParsePolicy("move")
	require.NoError(t, err)
	assert.Equal(t, ledger.PolicyMove, p)

	_, err = ledger.ParsePolicy("")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
