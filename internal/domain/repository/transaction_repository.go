package repository

import (
	"context"

	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para Transaction (DIP).
type TransactionRepository interface {
	// Create falla con domain.ErrNotFound si CategoryID no es una categoría viva del mismo dueño.
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, ownerID, id string) (*entity.Transaction, error)
	// Update reemplaza el registro completo. domain.ErrNotFound si no pertenece al dueño.
	Update(ctx context.Context, tx *entity.Transaction) error
	Delete(ctx context.Context, ownerID, id string) error
	// ReassignCategory mueve todas las transacciones de fromID a toID (nil = sin categoría).
	// Revalida que toID exista para el dueño.
	ReassignCategory(ctx context.Context, ownerID, fromID string, toID *string) (int64, error)
	DeleteByCategory(ctx context.Context, ownerID, categoryID string) (int64, error)
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}
