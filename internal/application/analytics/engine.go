// Package analytics motor de agregación: balance, recientes y gasto por categoría, en consulta puntual o en vivo.
package analytics

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain/money"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

// DefaultRecentLimit tamaño del feed de recientes del dashboard.
const DefaultRecentLimit = 8

// SnapshotReader ejecuta fn sobre un estado consistente del almacén (todas las consultas de fn ven lo mismo).
type SnapshotReader interface {
	View(ctx context.Context, fn func(repository.LedgerReader) error) error
}

// Engine calcula las vistas derivadas de un dueño.
type Engine struct {
	store       SnapshotReader
	changes     repository.ChangeSource
	log         zerolog.Logger
	recentLimit int
}

// NewEngine construye el motor. recentLimit <= 0 usa DefaultRecentLimit.
func NewEngine(store SnapshotReader, changes repository.ChangeSource, log zerolog.Logger, recentLimit int) *Engine {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Engine{store: store, changes: changes, log: log, recentLimit: recentLimit}
}

// RecentLimit límite de recientes usado por el dashboard.
func (e *Engine) RecentLimit() int { return e.recentLimit }

func query[T any](ctx context.Context, e *Engine, compute func(context.Context, repository.LedgerReader) (T, error)) (T, error) {
	var out T
	err := e.store.View(ctx, func(r repository.LedgerReader) error {
		v, err := compute(ctx, r)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func balanceOf(ownerID string) func(context.Context, repository.LedgerReader) (int64, error) {
	return func(ctx context.Context, r repository.LedgerReader) (int64, error) {
		return r.Balance(ctx, ownerID)
	}
}

func recentOf(ownerID string, limit int) func(context.Context, repository.LedgerReader) ([]entity.RecentItem, error) {
	return func(ctx context.Context, r repository.LedgerReader) ([]entity.RecentItem, error) {
		return r.RecentItems(ctx, ownerID, limit)
	}
}

func spendOf(ownerID string) func(context.Context, repository.LedgerReader) ([]entity.CategorySpend, error) {
	return func(ctx context.Context, r repository.LedgerReader) ([]entity.CategorySpend, error) {
		return r.SpendByCategory(ctx, ownerID)
	}
}

func countsOf(ownerID string) func(context.Context, repository.LedgerReader) ([]entity.CategoryWithCount, error) {
	return func(ctx context.Context, r repository.LedgerReader) ([]entity.CategoryWithCount, error) {
		return r.CategoriesWithCounts(ctx, ownerID)
	}
}

func categoriesOf(ownerID string) func(context.Context, repository.LedgerReader) ([]*entity.Category, error) {
	return func(ctx context.Context, r repository.LedgerReader) ([]*entity.Category, error) {
		return r.ListCategories(ctx, ownerID)
	}
}

func transactionsOf(ownerID string, f entity.TransactionFilter) func(context.Context, repository.LedgerReader) ([]*entity.Transaction, error) {
	return func(ctx context.Context, r repository.LedgerReader) ([]*entity.Transaction, error) {
		return r.ListTransactions(ctx, ownerID, f)
	}
}

func transactionOf(ownerID, id string) func(context.Context, repository.LedgerReader) (*entity.Transaction, error) {
	return func(ctx context.Context, r repository.LedgerReader) (*entity.Transaction, error) {
		return r.GetTransaction(ctx, ownerID, id)
	}
}

// dashboardOf lee todas las vistas del dashboard en la misma lectura.
func dashboardOf(ownerID string, limit int) func(context.Context, repository.LedgerReader) (*entity.DashboardSnapshot, error) {
	return func(ctx context.Context, r repository.LedgerReader) (*entity.DashboardSnapshot, error) {
		bal, err := r.Balance(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		recent, err := r.RecentItems(ctx, ownerID, limit)
		if err != nil {
			return nil, err
		}
		spend, err := r.SpendByCategory(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return buildDashboard(ownerID, bal, recent, spend)
	}
}

func buildDashboard(ownerID string, balance int64, recent []entity.RecentItem, spend []entity.CategorySpend) (*entity.DashboardSnapshot, error) {
	var total int64
	for _, s := range spend {
		var err error
		if total, err = ledger.AddMinor(total, s.SpendMinor); err != nil {
			return nil, err
		}
	}
	slices := make([]entity.SpendShare, len(spend))
	for i, s := range spend {
		slices[i] = entity.SpendShare{CategorySpend: s, Share: money.Percent(s.SpendMinor, total)}
	}
	return &entity.DashboardSnapshot{
		OwnerID:         ownerID,
		BalanceMinor:    balance,
		Recent:          recent,
		Spending:        slices,
		TotalSpendMinor: total,
	}, nil
}

// Balance suma con signo de las transacciones del dueño.
func (e *Engine) Balance(ctx context.Context, ownerID string) (int64, error) {
	return query(ctx, e, balanceOf(ownerID))
}

// RecentItems las limit transacciones más recientes.
func (e *Engine) RecentItems(ctx context.Context, ownerID string, limit int) ([]entity.RecentItem, error) {
	return query(ctx, e, recentOf(ownerID, limit))
}

// SpendByCategory gasto por categoría ordenado por monto.
func (e *Engine) SpendByCategory(ctx context.Context, ownerID string) ([]entity.CategorySpend, error) {
	return query(ctx, e, spendOf(ownerID))
}

// CategoriesWithCounts categorías con su número de transacciones.
func (e *Engine) CategoriesWithCounts(ctx context.Context, ownerID string) ([]entity.CategoryWithCount, error) {
	return query(ctx, e, countsOf(ownerID))
}

// Categories categorías ordenadas por nombre.
func (e *Engine) Categories(ctx context.Context, ownerID string) ([]*entity.Category, error) {
	return query(ctx, e, categoriesOf(ownerID))
}

// Transactions listado filtrado.
func (e *Engine) Transactions(ctx context.Context, ownerID string, f entity.TransactionFilter) ([]*entity.Transaction, error) {
	return query(ctx, e, transactionsOf(ownerID, f))
}

// Transaction una transacción. ErrNotFound si no existe para el dueño.
func (e *Engine) Transaction(ctx context.Context, ownerID, id string) (*entity.Transaction, error) {
	t, err := query(ctx, e, transactionOf(ownerID, id))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("transaction", id)
	}
	return t, nil
}

// Dashboard balance, recientes y gasto calculados sobre un único estado.
func (e *Engine) Dashboard(ctx context.Context, ownerID string) (*entity.DashboardSnapshot, error) {
	return query(ctx, e, dashboardOf(ownerID, e.recentLimit))
}
