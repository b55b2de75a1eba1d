package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

func TestAddTransaction_ValidaAntesDelAlmacen(t *testing.T) {
	runner := &countingRunner{}
	uc := ledger.NewTransactionUseCase(runner, zerolog.Nop())
	ctx := context.Background()

	for _, amount := range []string{"0", "-5.00", "", "abc"} {
		_, err := uc.AddTransaction(ctx, "u1", ledger.TransactionInput{Amount: amount, Kind: entity.KindExpense})
		assert.ErrorIs(t, err, domain.ErrValidation, amount)
	}
	_, err := uc.AddTransaction(ctx, "u1", ledger.TransactionInput{Amount: "5", Kind: "GIFT"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, runner.calls, "no debe abrir transacción con entrada inválida")
}

func TestAddTransaction_CategoriaInexistente(t *testing.T) {
	f := newFixture()
	foreign := f.addCategory(t, "u2", "Food")
	id := foreign.ID
	_, err := f.txs.AddTransaction(context.Background(), "u1", ledger.TransactionInput{
		Amount: "5", Kind: entity.KindExpense, CategoryID: &id,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.list(t, "u1"))
}

func TestAddTransaction_NormalizaEntrada(t *testing.T) {
	f := newFixture()
	empty := "  "
	tx, err := f.txs.AddTransaction(context.Background(), "u1", ledger.TransactionInput{
		Amount: "$1,234.56", Kind: entity.KindIncome, Note: "  sueldo ", Date: 20000, CategoryID: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(123456), tx.AmountMinor)
	assert.Equal(t, "sueldo", tx.Note)
	assert.Nil(t, tx.CategoryID)
	assert.NotEmpty(t, tx.ID)
}

func TestUpdateTransaction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	food := f.addCategory(t, "u1", "Food")
	orig := f.addTx(t, "u1", "10", entity.KindExpense, 1, nil)

	cat := food.ID
	upd, err := f.txs.UpdateTransaction(ctx, "u1", orig.ID, ledger.TransactionInput{
		Amount: "12.5", Kind: entity.KindExpense, Date: 2, CategoryID: &cat,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1250), upd.AmountMinor)
	assert.Equal(t, orig.CreatedAt, upd.CreatedAt)

	txs := f.list(t, "u1")
	require.Len(t, txs, 1)
	assert.True(t, txs[0].HasCategory(food.ID))
	assert.Equal(t, entity.Day(2), txs[0].Date)

	_, err = f.txs.UpdateTransaction(ctx, "u2", orig.ID, ledger.TransactionInput{Amount: "1", Kind: entity.KindIncome})
	assert.ErrorIs(t, err, domain.ErrNotFound, "transacción de otro dueño")
}

func TestDeleteTransaction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.addTx(t, "u1", "10", entity.KindExpense, 1, nil)

	assert.ErrorIs(t, f.txs.DeleteTransaction(ctx, "u2", tx.ID), domain.ErrNotFound)
	require.NoError(t, f.txs.DeleteTransaction(ctx, "u1", tx.ID))
	assert.Empty(t, f.list(t, "u1"))
	assert.ErrorIs(t, f.txs.DeleteTransaction(ctx, "u1", tx.ID), domain.ErrNotFound)
}

func TestRun_FalloRevierteTodo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	food := f.addCategory(t, "u1", "Food")
	f.addTx(t, "u1", "10", entity.KindExpense, 1, food)

	boom := errors.New("boom")
	err := f.store.Run(ctx, "u1", func(categories repository.CategoryRepository, transactions repository.TransactionRepository) error {
		if _, err := transactions.ReassignCategory(ctx, "u1", food.ID, nil); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	txs := f.list(t, "u1")
	require.Len(t, txs, 1)
	assert.True(t, txs[0].HasCategory(food.ID), "reasignación parcial no publicada")
}

type countingRunner struct {
	calls int
}

func (r *countingRunner) Run(context.Context, string, ledger.RepoFunc) error {
	r.calls++
	return nil
}
