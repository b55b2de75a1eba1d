package repository

import (
	"context"

	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP). Toda operación va acotada al dueño.
type CategoryRepository interface {
	// Create falla con domain.ErrDuplicateName si el dueño ya tiene una categoría con la misma NameKey.
	Create(ctx context.Context, category *entity.Category) error
	// GetByID devuelve nil, nil si no existe para ese dueño.
	GetByID(ctx context.Context, ownerID, id string) (*entity.Category, error)
	FindByNameKey(ctx context.Context, ownerID, nameKey string) (*entity.Category, error)
	// Rename reemplaza Name/NameKey. domain.ErrNotFound o domain.ErrDuplicateName.
	Rename(ctx context.Context, category *entity.Category) error
	// Delete elimina solo la fila de la categoría; las transacciones ya deben estar resueltas.
	Delete(ctx context.Context, ownerID, id string) error
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}
