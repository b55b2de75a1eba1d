package repository

import (
	"context"

	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

// LedgerReader consultas de solo lectura sobre el libro de un dueño.
type LedgerReader interface {
	// Balance suma con signo: ingresos positivos, gastos negativos.
	Balance(ctx context.Context, ownerID string) (int64, error)
	// RecentItems las limit transacciones más recientes (fecha desc, id desc) con nombre de categoría.
	RecentItems(ctx context.Context, ownerID string, limit int) ([]entity.RecentItem, error)
	// SpendByCategory gasto por categoría, excluye grupos con suma <= 0, orden por gasto desc.
	SpendByCategory(ctx context.Context, ownerID string) ([]entity.CategorySpend, error)
	// CategoriesWithCounts todas las categorías (incluso sin transacciones) por nombre ascendente.
	CategoriesWithCounts(ctx context.Context, ownerID string) ([]entity.CategoryWithCount, error)
	ListCategories(ctx context.Context, ownerID string) ([]*entity.Category, error)
	ListTransactions(ctx context.Context, ownerID string, filter entity.TransactionFilter) ([]*entity.Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id string) (*entity.Transaction, error)
}

// ChangeNotifier recibe un aviso por cada mutación confirmada que afecta al dueño.
type ChangeNotifier interface {
	Notify(ownerID string)
}

// ChangeSource permite suscribirse a los avisos de un dueño. La función devuelta cancela la suscripción.
type ChangeSource interface {
	Subscribe(ownerID string) (<-chan struct{}, func())
}
