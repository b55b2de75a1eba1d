package dto

import (
	"time"

	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

// CategoryRequest entrada para crear o renombrar una categoría.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse salida de una categoría. TransactionCount solo en listados.
type CategoryResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CreatedAt        time.Time `json:"created_at"`
	TransactionCount *int64    `json:"transaction_count,omitempty"`
}

// CategoryListResponse categorías ordenadas por nombre.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}

// DeleteCategoryResponse resultado de eliminar una categoría con su política.
type DeleteCategoryResponse struct {
	CategoryID string  `json:"category_id"`
	Policy     string  `json:"policy"`
	TargetID   *string `json:"target_id,omitempty"`
	Affected   int64   `json:"affected_transactions"`
}

// ClearLedgerResponse resultado de vaciar el libro.
type ClearLedgerResponse struct {
	Transactions int64 `json:"deleted_transactions"`
	Categories   int64 `json:"deleted_categories"`
}

func ToCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func ToCategoryListResponse(rows []entity.CategoryWithCount) CategoryListResponse {
	items := make([]CategoryResponse, len(rows))
	for i, r := range rows {
		n := r.TxCount
		items[i] = CategoryResponse{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, TransactionCount: &n}
	}
	return CategoryListResponse{Items: items}
}

func ToDeleteCategoryResponse(r *ledger.DeleteResult) DeleteCategoryResponse {
	return DeleteCategoryResponse{
		CategoryID: r.CategoryID,
		Policy:     string(r.Policy),
		TargetID:   r.TargetID,
		Affected:   r.Affected,
	}
}

func ToClearLedgerResponse(r *ledger.ClearResult) ClearLedgerResponse {
	return ClearLedgerResponse{Transactions: r.Transactions, Categories: r.Categories}
}
