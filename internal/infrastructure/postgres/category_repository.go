package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id::text, owner_id, name, name_key, created_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.NameKey, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta la categoría; la unicidad (owner_id, name_key) la garantiza un índice único.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, owner_id, name, name_key, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, c.ID, c.OwnerID, c.Name, c.NameKey, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.DuplicateName(c.Name)
		}
		return storageErr("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría del dueño; nil si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, ownerID, id string) (*entity.Category, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE owner_id = $1 AND id = $2`
	c, err := scanCategory(r.q.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get category", err)
	}
	return c, nil
}

// FindByNameKey busca por nombre normalizado; nil si no existe.
func (r *CategoryRepo) FindByNameKey(ctx context.Context, ownerID, nameKey string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE owner_id = $1 AND name_key = $2`
	c, err := scanCategory(r.q.QueryRow(ctx, query, ownerID, nameKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("find category by name", err)
	}
	return c, nil
}

// Rename actualiza nombre y clave.
func (r *CategoryRepo) Rename(ctx context.Context, c *entity.Category) error {
	if !validID(c.ID) {
		return domain.NotFound("category", c.ID)
	}
	query := `UPDATE categories SET name = $3, name_key = $4 WHERE owner_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, c.OwnerID, c.ID, c.Name, c.NameKey)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.DuplicateName(c.Name)
		}
		return storageErr("rename category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("category", c.ID)
	}
	return nil
}

// Delete elimina la fila. Si aún hay transacciones que la referencian la FK lo impide.
func (r *CategoryRepo) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return domain.NotFound("category", id)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return domain.NewStorageError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("category", id)
	}
	return nil
}

// DeleteAllByOwner elimina todas las categorías del dueño.
func (r *CategoryRepo) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, domain.NewStorageError("delete categories", err)
	}
	return tag.RowsAffected(), nil
}
