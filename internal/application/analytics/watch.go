package analytics

import (
	"context"

	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

// Subscription vista en vivo. Cancel detiene los recálculos y espera a que termine el goroutine:
// al volver no se invoca más el callback. No llamar a Cancel desde el propio callback.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel es idempotente.
func (s *Subscription) Cancel() {
	s.cancel()
	<-s.done
}

// Done se cierra cuando la suscripción terminó (Cancel o contexto cancelado).
func (s *Subscription) Done() <-chan struct{} { return s.done }

// watch entrega un primer valor y uno nuevo por cada aviso de cambio del dueño.
// La suscripción al hub se hace antes del primer cálculo para no perder cambios intermedios.
func watch[T any](ctx context.Context, e *Engine, ownerID, view string,
	compute func(context.Context, repository.LedgerReader) (T, error), fn func(T, error)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	signals, unsubscribe := e.changes.Subscribe(ownerID)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer unsubscribe()
		for {
			v, err := query(ctx, e, compute)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				e.log.Error().Err(err).Str("owner_id", ownerID).Str("view", view).Msg("recalculo de vista fallido")
			}
			fn(v, err)
			select {
			case <-ctx.Done():
				return
			case <-signals:
			}
		}
	}()
	return sub
}

// WatchBalance balance en vivo.
func (e *Engine) WatchBalance(ctx context.Context, ownerID string, fn func(int64, error)) *Subscription {
	return watch(ctx, e, ownerID, "balance", balanceOf(ownerID), fn)
}

// WatchRecentItems recientes en vivo.
func (e *Engine) WatchRecentItems(ctx context.Context, ownerID string, limit int, fn func([]entity.RecentItem, error)) *Subscription {
	return watch(ctx, e, ownerID, "recent", recentOf(ownerID, limit), fn)
}

// WatchSpendByCategory gasto por categoría en vivo.
func (e *Engine) WatchSpendByCategory(ctx context.Context, ownerID string, fn func([]entity.CategorySpend, error)) *Subscription {
	return watch(ctx, e, ownerID, "spending", spendOf(ownerID), fn)
}

// WatchCategoriesWithCounts categorías con conteo en vivo.
func (e *Engine) WatchCategoriesWithCounts(ctx context.Context, ownerID string, fn func([]entity.CategoryWithCount, error)) *Subscription {
	return watch(ctx, e, ownerID, "category_counts", countsOf(ownerID), fn)
}

// WatchCategories listado de categorías en vivo.
func (e *Engine) WatchCategories(ctx context.Context, ownerID string, fn func([]*entity.Category, error)) *Subscription {
	return watch(ctx, e, ownerID, "categories", categoriesOf(ownerID), fn)
}

// WatchTransactions listado filtrado en vivo.
func (e *Engine) WatchTransactions(ctx context.Context, ownerID string, f entity.TransactionFilter, fn func([]*entity.Transaction, error)) *Subscription {
	return watch(ctx, e, ownerID, "transactions", transactionsOf(ownerID, f), fn)
}

// WatchTransaction una transacción en vivo; entrega nil cuando se elimina.
func (e *Engine) WatchTransaction(ctx context.Context, ownerID, id string, fn func(*entity.Transaction, error)) *Subscription {
	return watch(ctx, e, ownerID, "transaction", transactionOf(ownerID, id), fn)
}

// WatchDashboard dashboard en vivo.
func (e *Engine) WatchDashboard(ctx context.Context, ownerID string, fn func(*entity.DashboardSnapshot, error)) *Subscription {
	return watch(ctx, e, ownerID, "dashboard", dashboardOf(ownerID, e.recentLimit), fn)
}
