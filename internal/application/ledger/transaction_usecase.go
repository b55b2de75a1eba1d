package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/money"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

// TransactionInput datos de alta o reemplazo de una transacción. Amount es texto libre.
type TransactionInput struct {
	Amount     string
	Kind       entity.Kind
	Note       string
	Date       entity.Day
	CategoryID *string // nil o vacío = sin categoría
}

// TransactionUseCase alta, reemplazo y baja de transacciones.
type TransactionUseCase struct {
	tx    TxRunner
	log   zerolog.Logger
	newID func() string
	now   func() time.Time
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(tx TxRunner, log zerolog.Logger) *TransactionUseCase {
	return &TransactionUseCase{tx: tx, log: log, newID: newID, now: time.Now}
}

// build valida la entrada antes de tocar el almacén.
func (uc *TransactionUseCase) build(ownerID string, in TransactionInput) (*entity.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if !in.Kind.Valid() {
		return nil, domain.Validation("tipo de transacción inválido %q", in.Kind)
	}
	amount, err := money.ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	var cat *string
	if in.CategoryID != nil {
		if c := strings.TrimSpace(*in.CategoryID); c != "" {
			cat = &c
		}
	}
	return &entity.Transaction{
		OwnerID:     ownerID,
		AmountMinor: amount,
		Kind:        in.Kind,
		Note:        strings.TrimSpace(in.Note),
		Date:        in.Date,
		CategoryID:  cat,
	}, nil
}

func checkCategory(ctx context.Context, categories repository.CategoryRepository, t *entity.Transaction) error {
	if t.CategoryID == nil {
		return nil
	}
	c, err := categories.GetByID(ctx, t.OwnerID, *t.CategoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("category", *t.CategoryID)
	}
	return nil
}

// AddTransaction registra una transacción nueva.
func (uc *TransactionUseCase) AddTransaction(ctx context.Context, ownerID string, in TransactionInput) (*entity.Transaction, error) {
	t, err := uc.build(ownerID, in)
	if err != nil {
		return nil, err
	}
	t.ID = uc.newID()
	t.CreatedAt = uc.now().UTC()
	err = uc.tx.Run(ctx, ownerID, func(categories repository.CategoryRepository, transactions repository.TransactionRepository) error {
		if err := checkCategory(ctx, categories, t); err != nil {
			return err
		}
		return transactions.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("owner_id", ownerID).Str("transaction_id", t.ID).Str("kind", string(t.Kind)).Msg("transacción creada")
	return t, nil
}

// UpdateTransaction reemplaza el registro completo conservando id y fecha de creación.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, ownerID, id string, in TransactionInput) (*entity.Transaction, error) {
	t, err := uc.build(ownerID, in)
	if err != nil {
		return nil, err
	}
	t.ID = id
	err = uc.tx.Run(ctx, ownerID, func(categories repository.CategoryRepository, transactions repository.TransactionRepository) error {
		current, err := transactions.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NotFound("transaction", id)
		}
		t.CreatedAt = current.CreatedAt
		if err := checkCategory(ctx, categories, t); err != nil {
			return err
		}
		return transactions.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("owner_id", ownerID).Str("transaction_id", id).Msg("transacción actualizada")
	return t, nil
}

// DeleteTransaction elimina la transacción. ErrNotFound si no pertenece al dueño.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, ownerID, func(_ repository.CategoryRepository, transactions repository.TransactionRepository) error {
		return transactions.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return err
	}
	uc.log.Debug().Str("owner_id", ownerID).Str("transaction_id", id).Msg("transacción eliminada")
	return nil
}
