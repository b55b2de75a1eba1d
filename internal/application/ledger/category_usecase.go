// Package ledger contiene los casos de uso de mutación del libro: ciclo de vida de categorías y transacciones.
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

// DeletePolicy decide qué pasa con las transacciones de una categoría eliminada.
type DeletePolicy string

const (
	PolicyMove               DeletePolicy = "MOVE"
	PolicyUncategorize       DeletePolicy = "UNCATEGORIZE"
	PolicyDeleteTransactions DeletePolicy = "DELETE_TRANSACTIONS"
)

// ParsePolicy acepta las tres políticas sin distinguir mayúsculas.
func ParsePolicy(s string) (DeletePolicy, error) {
	p := DeletePolicy(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PolicyMove, PolicyUncategorize, PolicyDeleteTransactions:
		return p, nil
	default:
		return "", domain.Validation("política de eliminación desconocida %q", s)
	}
}

// DeleteResult resumen de una eliminación de categoría.
type DeleteResult struct {
	CategoryID string
	Policy     DeletePolicy
	TargetID   *string
	Affected   int64 // transacciones movidas o eliminadas
}

// ClearResult resumen de ClearAll.
type ClearResult struct {
	Transactions int64
	Categories   int64
}

// CategoryUseCase gestor del ciclo de vida de categorías.
type CategoryUseCase struct {
	tx    TxRunner
	log   zerolog.Logger
	newID func() string
	now   func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(tx TxRunner, log zerolog.Logger) *CategoryUseCase {
	return &CategoryUseCase{tx: tx, log: log, newID: newID, now: time.Now}
}

// newID ids UUIDv7: ordenados por tiempo, así id desc equivale a "creado más recientemente".
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return domain.Validation("owner id vacío")
	}
	return nil
}

func validName(name string) (string, error) {
	n := entity.NormalizeName(name)
	if n == "" {
		return "", domain.Validation("el nombre de la categoría no puede estar vacío")
	}
	return n, nil
}

// AddCategory crea una categoría. ErrValidation si el nombre queda vacío, ErrDuplicateName si choca.
func (uc *CategoryUseCase) AddCategory(ctx context.Context, ownerID, name string) (*entity.Category, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	n, err := validName(name)
	if err != nil {
		return nil, err
	}
	cat := &entity.Category{
		ID:        uc.newID(),
		OwnerID:   ownerID,
		Name:      n,
		NameKey:   entity.NameKey(n),
		CreatedAt: uc.now().UTC(),
	}
	err = uc.tx.Run(ctx, ownerID, func(categories repository.CategoryRepository, _ repository.TransactionRepository) error {
		existing, err := categories.FindByNameKey(ctx, ownerID, cat.NameKey)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.DuplicateName(n)
		}
		return categories.Create(ctx, cat)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("owner_id", ownerID).Str("category_id", cat.ID).Msg("categoría creada")
	return cat, nil
}

// RenameCategory cambia el nombre. La unicidad excluye a la propia categoría.
func (uc *CategoryUseCase) RenameCategory(ctx context.Context, ownerID, id, name string) (*entity.Category, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	n, err := validName(name)
	if err != nil {
		return nil, err
	}
	var out *entity.Category
	err = uc.tx.Run(ctx, ownerID, func(categories repository.CategoryRepository, _ repository.TransactionRepository) error {
		cat, err := categories.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.NotFound("category", id)
		}
		key := entity.NameKey(n)
		existing, err := categories.FindByNameKey(ctx, ownerID, key)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return domain.DuplicateName(n)
		}
		cat.Name = n
		cat.NameKey = key
		if err := categories.Rename(ctx, cat); err != nil {
			return err
		}
		out = cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("owner_id", ownerID).Str("category_id", id).Msg("categoría renombrada")
	return out, nil
}

// DeleteCategory elimina la categoría aplicando policy a sus transacciones, todo en una unidad atómica.
// MOVE exige target distinto, vivo y del mismo dueño; las demás políticas no admiten target.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, ownerID, id string, policy DeletePolicy, target *string) (*DeleteResult, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if target != nil && strings.TrimSpace(*target) == "" {
		target = nil
	}
	switch policy {
	case PolicyMove:
		if target == nil {
			return nil, domain.InvalidPolicyArgument("MOVE requiere una categoría destino")
		}
		if *target == id {
			return nil, domain.InvalidPolicyArgument("la categoría destino debe ser distinta de la eliminada")
		}
	case PolicyUncategorize, PolicyDeleteTransactions:
		if target != nil {
			return nil, domain.InvalidPolicyArgument("%s no admite categoría destino", policy)
		}
	default:
		return nil, domain.Validation("política de eliminación desconocida %q", policy)
	}

	res := &DeleteResult{CategoryID: id, Policy: policy, TargetID: target}
	err := uc.tx.Run(ctx, ownerID, func(categories repository.CategoryRepository, transactions repository.TransactionRepository) error {
		cat, err := categories.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.NotFound("category", id)
		}
		// primero las transacciones, luego la categoría
		switch policy {
		case PolicyMove:
			dest, err := categories.GetByID(ctx, ownerID, *target)
			if err != nil {
				return err
			}
			if dest == nil {
				return domain.InvalidPolicyArgument("la categoría destino %q no existe", *target)
			}
			n, err := transactions.ReassignCategory(ctx, ownerID, id, target)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.InvalidPolicyArgument("la categoría destino %q no existe", *target)
			}
			if err != nil {
				return err
			}
			res.Affected = n
		case PolicyUncategorize:
			n, err := transactions.ReassignCategory(ctx, ownerID, id, nil)
			if err != nil {
				return err
			}
			res.Affected = n
		case PolicyDeleteTransactions:
			n, err := transactions.DeleteByCategory(ctx, ownerID, id)
			if err != nil {
				return err
			}
			res.Affected = n
		}
		return categories.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("owner_id", ownerID).Str("category_id", id).Str("policy", string(policy)).
		Int64("affected", res.Affected).Msg("categoría eliminada")
	return res, nil
}

// ClearAll borra todas las transacciones y luego todas las categorías del dueño.
func (uc *CategoryUseCase) ClearAll(ctx context.Context, ownerID string) (*ClearResult, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	res := &ClearResult{}
	err := uc.tx.Run(ctx, ownerID, func(categories repository.CategoryRepository, transactions repository.TransactionRepository) error {
		n, err := transactions.DeleteAllByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		res.Transactions = n
		n, err = categories.DeleteAllByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		res.Categories = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("owner_id", ownerID).Int64("transactions", res.Transactions).
		Int64("categories", res.Categories).Msg("libro vaciado")
	return res, nil
}
