package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/infrastructure/events"
	"github.com/jhoicas/finanzas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/finanzas-api/pkg/config"
)

type pgEnv struct {
	cats   *ledger.CategoryUseCase
	txs    *ledger.TransactionUseCase
	engine *analytics.Engine
	store  *postgres.Store
	hub    *events.Hub
	pool   *pgxpool.Pool
}

func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con Docker omitida en modo -short")
	}
	ctx := context.Background()

	ctr, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("finanzas"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Docker no disponible: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.RunMigrations(dsn))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	hub := events.NewHub()
	store := postgres.NewStore(pool, hub, "ledger_changes", zerolog.Nop())
	return &pgEnv{
		cats:   ledger.NewCategoryUseCase(store, zerolog.Nop()),
		txs:    ledger.NewTransactionUseCase(store, zerolog.Nop()),
		engine: analytics.NewEngine(store, hub, zerolog.Nop(), 8),
		store:  store,
		hub:    hub,
		pool:   pool,
	}
}

func (e *pgEnv) add(t *testing.T, owner, amount string, kind entity.Kind, day entity.Day, cat *entity.Category) *entity.Transaction {
	t.Helper()
	in := ledger.TransactionInput{Amount: amount, Kind: kind, Date: day}
	if cat != nil {
		id := cat.ID
		in.CategoryID = &id
	}
	tx, err := e.txs.AddTransaction(context.Background(), owner, in)
	require.NoError(t, err)
	return tx
}

func TestPostgresStore(t *testing.T) {
	e := setupPostgres(t)
	ctx := context.Background()

	t.Run("unicidad de nombres", func(t *testing.T) {
		_, err := e.cats.AddCategory(ctx, "u1", "Food")
		require.NoError(t, err)
		_, err = e.cats.AddCategory(ctx, "u1", "food ")
		assert.ErrorIs(t, err, domain.ErrDuplicateName)
		_, err = e.cats.AddCategory(ctx, "u2", "Food")
		assert.NoError(t, err)
	})

	t.Run("agregaciones", func(t *testing.T) {
		rent, err := e.cats.AddCategory(ctx, "agg", "Rent")
		require.NoError(t, err)
		fun, err := e.cats.AddCategory(ctx, "agg", "Fun")
		require.NoError(t, err)
		_, err = e.cats.AddCategory(ctx, "agg", "Empty")
		require.NoError(t, err)

		e.add(t, "agg", "1000", entity.KindIncome, 10, nil)
		e.add(t, "agg", "700", entity.KindExpense, 10, rent)
		e.add(t, "agg", "50.25", entity.KindExpense, 9, fun)
		last := e.add(t, "agg", "10", entity.KindExpense, 10, nil)

		bal, err := e.engine.Balance(ctx, "agg")
		require.NoError(t, err)
		assert.Equal(t, int64(23975), bal)

		recent, err := e.engine.RecentItems(ctx, "agg", 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, last.ID, recent[0].TransactionID)
		assert.Equal(t, entity.UncategorizedLabel, recent[0].CategoryName)
		assert.Equal(t, "Rent", recent[1].CategoryName)

		spend, err := e.engine.SpendByCategory(ctx, "agg")
		require.NoError(t, err)
		require.Len(t, spend, 3)
		assert.Equal(t, "Rent", spend[0].Label)
		assert.Equal(t, "Fun", spend[1].Label)
		assert.Equal(t, entity.UncategorizedLabel, spend[2].Label)

		counts, err := e.engine.CategoriesWithCounts(ctx, "agg")
		require.NoError(t, err)
		require.Len(t, counts, 3)
		assert.Equal(t, "Empty", counts[0].Name)
		assert.Zero(t, counts[0].TxCount)

		from := entity.Day(10)
		list, err := e.engine.Transactions(ctx, "agg", entity.TransactionFilter{
			Kind: entity.KindFilterExpense, From: &from, Sort: entity.SortAmountAsc,
		})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, int64(1000), list[0].AmountMinor)
	})

	t.Run("politica MOVE y referencia invalida", func(t *testing.T) {
		src, err := e.cats.AddCategory(ctx, "mv", "Src")
		require.NoError(t, err)
		dst, err := e.cats.AddCategory(ctx, "mv", "Dst")
		require.NoError(t, err)
		e.add(t, "mv", "1", entity.KindExpense, 1, src)
		e.add(t, "mv", "2", entity.KindExpense, 1, src)

		bogus := "no-es-uuid"
		_, err = e.cats.DeleteCategory(ctx, "mv", src.ID, ledger.PolicyMove, &bogus)
		assert.ErrorIs(t, err, domain.ErrInvalidPolicyArgument)

		target := dst.ID
		res, err := e.cats.DeleteCategory(ctx, "mv", src.ID, ledger.PolicyMove, &target)
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Affected)

		counts, err := e.engine.CategoriesWithCounts(ctx, "mv")
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, int64(2), counts[0].TxCount)

		_, err = e.txs.AddTransaction(ctx, "mv", ledger.TransactionInput{
			Amount: "1", Kind: entity.KindExpense, CategoryID: &src.ID,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound, "categoría eliminada")
	})

	t.Run("clearAll aislado", func(t *testing.T) {
		c, err := e.cats.AddCategory(ctx, "clr", "X")
		require.NoError(t, err)
		e.add(t, "clr", "5", entity.KindExpense, 1, c)
		res, err := e.cats.ClearAll(ctx, "clr")
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Transactions)
		assert.Equal(t, int64(1), res.Categories)

		cats, err := e.engine.Categories(ctx, "u2")
		require.NoError(t, err)
		assert.Len(t, cats, 1, "otros dueños intactos")
	})

	t.Run("aviso tras commit", func(t *testing.T) {
		ch, cancel := e.hub.Subscribe("ntf")
		defer cancel()
		e.add(t, "ntf", "1", entity.KindIncome, 1, nil)
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("sin aviso tras commit")
		}
	})

	t.Run("listener resincroniza tras reconexión", func(t *testing.T) {
		remote := events.NewHub()
		ch, unsub := remote.Subscribe("rs")
		defer unsub()
		lctx, stop := context.WithCancel(ctx)
		defer stop()
		go postgres.NewListener(e.pool, "ledger_changes", "otra-instancia", remote, zerolog.Nop()).Run(lctx)

		var pid int
		require.Eventually(t, func() bool {
			return e.pool.QueryRow(ctx,
				`SELECT pid FROM pg_stat_activity WHERE query LIKE 'LISTEN%' LIMIT 1`).Scan(&pid) == nil
		}, 5*time.Second, 50*time.Millisecond)
		select {
		case <-ch:
			t.Fatal("aviso sin cambios ni reconexión")
		default:
		}

		_, err := e.pool.Exec(ctx, "SELECT pg_terminate_backend($1)", pid)
		require.NoError(t, err)
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("sin aviso de resincronización tras reconectar")
		}
	})
}
