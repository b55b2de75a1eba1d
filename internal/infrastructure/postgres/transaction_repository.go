package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del puerto TransactionRepository sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id::text, owner_id, amount_minor, kind, note, date_epoch_day, category_id::text, created_at`

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	err := row.Scan(&t.ID, &t.OwnerID, &t.AmountMinor, &t.Kind, &t.Note, &t.Date, &t.CategoryID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// categoryRef traduce una referencia no UUID en NotFound antes de llegar a la BD.
func categoryRef(id *string) error {
	if id != nil && !validID(*id) {
		return domain.NotFound("category", *id)
	}
	return nil
}

func writeErr(op string, t *entity.Transaction, err error) error {
	if isForeignKeyViolation(err) && t.CategoryID != nil {
		return domain.NotFound("category", *t.CategoryID)
	}
	return storageErr(op, err)
}

// Create inserta la transacción. La FK compuesta exige categoría del mismo dueño.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	if err := categoryRef(t.CategoryID); err != nil {
		return err
	}
	query := `
		INSERT INTO transactions (id, owner_id, amount_minor, kind, note, date_epoch_day, category_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.OwnerID, t.AmountMinor, string(t.Kind), t.Note, int64(t.Date), t.CategoryID, t.CreatedAt,
	)
	if err != nil {
		return writeErr("insert transaction", t, err)
	}
	return nil
}

// GetByID obtiene una transacción del dueño; nil si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, ownerID, id string) (*entity.Transaction, error) {
	return getTransaction(ctx, r.q, ownerID, id)
}

func getTransaction(ctx context.Context, q Querier, ownerID, id string) (*entity.Transaction, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE owner_id = $1 AND id = $2`
	t, err := scanTransaction(q.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get transaction", err)
	}
	return t, nil
}

// Update reemplaza todos los campos editables.
func (r *TransactionRepo) Update(ctx context.Context, t *entity.Transaction) error {
	if !validID(t.ID) {
		return domain.NotFound("transaction", t.ID)
	}
	if err := categoryRef(t.CategoryID); err != nil {
		return err
	}
	query := `
		UPDATE transactions
		SET amount_minor = $3, kind = $4, note = $5, date_epoch_day = $6, category_id = $7
		WHERE owner_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		t.OwnerID, t.ID, t.AmountMinor, string(t.Kind), t.Note, int64(t.Date), t.CategoryID,
	)
	if err != nil {
		return writeErr("update transaction", t, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("transaction", t.ID)
	}
	return nil
}

// Delete elimina la transacción del dueño.
func (r *TransactionRepo) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return domain.NotFound("transaction", id)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return storageErr("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("transaction", id)
	}
	return nil
}

// ReassignCategory mueve en bloque las transacciones de fromID a toID (nil = sin categoría).
// Revalida el destino con un bloqueo de fila para que no desaparezca antes del commit.
func (r *TransactionRepo) ReassignCategory(ctx context.Context, ownerID, fromID string, toID *string) (int64, error) {
	if !validID(fromID) {
		return 0, nil
	}
	if toID != nil {
		if !validID(*toID) {
			return 0, domain.NotFound("category", *toID)
		}
		var one int
		err := r.q.QueryRow(ctx,
			`SELECT 1 FROM categories WHERE owner_id = $1 AND id = $2 FOR SHARE`, ownerID, *toID,
		).Scan(&one)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, domain.NotFound("category", *toID)
			}
			return 0, storageErr("check target category", err)
		}
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE transactions SET category_id = $3 WHERE owner_id = $1 AND category_id = $2`,
		ownerID, fromID, toID,
	)
	if err != nil {
		if isForeignKeyViolation(err) && toID != nil {
			return 0, domain.NotFound("category", *toID)
		}
		return 0, storageErr("reassign category", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByCategory elimina todas las transacciones que referencian categoryID.
func (r *TransactionRepo) DeleteByCategory(ctx context.Context, ownerID, categoryID string) (int64, error) {
	if !validID(categoryID) {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx,
		`DELETE FROM transactions WHERE owner_id = $1 AND category_id = $2`, ownerID, categoryID,
	)
	if err != nil {
		return 0, storageErr("delete transactions by category", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteAllByOwner elimina todas las transacciones del dueño.
func (r *TransactionRepo) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, storageErr("delete transactions", err)
	}
	return tag.RowsAffected(), nil
}
