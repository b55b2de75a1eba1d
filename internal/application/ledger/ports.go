package ledger

import (
	"context"

	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

// RepoFunc recibe repositorios atados a una misma unidad atómica.
type RepoFunc func(categories repository.CategoryRepository, transactions repository.TransactionRepository) error

// TxRunner ejecuta fn dentro de una transacción del almacén. Si fn devuelve error no se persiste nada.
// Tras un commit exitoso avisa a los suscriptores de ownerID.
type TxRunner interface {
	Run(ctx context.Context, ownerID string, fn RepoFunc) error
}
