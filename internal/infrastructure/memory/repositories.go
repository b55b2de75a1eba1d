package memory

import (
	"context"
	"errors"

	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

var errCategoryInUse = errors.New("categoría referenciada por transacciones")

type categoryRepo struct {
	st *state
}

func (r *categoryRepo) findByKey(ownerID, key string) *entity.Category {
	for _, c := range r.st.categories {
		if c.OwnerID == ownerID && c.NameKey == key {
			return c
		}
	}
	return nil
}

func (r *categoryRepo) referenced(ownerID, id string) bool {
	for _, t := range r.st.transactions {
		if t.OwnerID == ownerID && t.HasCategory(id) {
			return true
		}
	}
	return false
}

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	if _, ok := r.st.categories[c.ID]; ok {
		return domain.NewStorageError("create category", errors.New("id duplicado"))
	}
	if r.findByKey(c.OwnerID, c.NameKey) != nil {
		return domain.DuplicateName(c.Name)
	}
	r.st.categories[c.ID] = copyCategory(c)
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, ownerID, id string) (*entity.Category, error) {
	c := r.st.category(ownerID, id)
	if c == nil {
		return nil, nil
	}
	return copyCategory(c), nil
}

func (r *categoryRepo) FindByNameKey(_ context.Context, ownerID, nameKey string) (*entity.Category, error) {
	c := r.findByKey(ownerID, nameKey)
	if c == nil {
		return nil, nil
	}
	return copyCategory(c), nil
}

func (r *categoryRepo) Rename(_ context.Context, c *entity.Category) error {
	cur := r.st.category(c.OwnerID, c.ID)
	if cur == nil {
		return domain.NotFound("category", c.ID)
	}
	if other := r.findByKey(c.OwnerID, c.NameKey); other != nil && other.ID != c.ID {
		return domain.DuplicateName(c.Name)
	}
	cur.Name = c.Name
	cur.NameKey = c.NameKey
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, ownerID, id string) error {
	if r.st.category(ownerID, id) == nil {
		return domain.NotFound("category", id)
	}
	if r.referenced(ownerID, id) {
		return domain.NewStorageError("delete category", errCategoryInUse)
	}
	delete(r.st.categories, id)
	return nil
}

func (r *categoryRepo) DeleteAllByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for id, c := range r.st.categories {
		if c.OwnerID != ownerID {
			continue
		}
		if r.referenced(ownerID, id) {
			return 0, domain.NewStorageError("delete categories", errCategoryInUse)
		}
		delete(r.st.categories, id)
		n++
	}
	return n, nil
}

type transactionRepo struct {
	st *state
}

// checkRow replica las restricciones del esquema: monto positivo, tipo válido y FK al mismo dueño.
func (r *transactionRepo) checkRow(t *entity.Transaction) error {
	if t.AmountMinor <= 0 || !t.Kind.Valid() {
		return domain.NewStorageError("check transaction", errors.New("fila inválida"))
	}
	if t.CategoryID != nil && r.st.category(t.OwnerID, *t.CategoryID) == nil {
		return domain.NotFound("category", *t.CategoryID)
	}
	return nil
}

func (r *transactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	if _, ok := r.st.transactions[t.ID]; ok {
		return domain.NewStorageError("create transaction", errors.New("id duplicado"))
	}
	if err := r.checkRow(t); err != nil {
		return err
	}
	r.st.transactions[t.ID] = copyTransaction(t)
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, ownerID, id string) (*entity.Transaction, error) {
	t := r.st.transaction(ownerID, id)
	if t == nil {
		return nil, nil
	}
	return copyTransaction(t), nil
}

func (r *transactionRepo) Update(_ context.Context, t *entity.Transaction) error {
	if r.st.transaction(t.OwnerID, t.ID) == nil {
		return domain.NotFound("transaction", t.ID)
	}
	if err := r.checkRow(t); err != nil {
		return err
	}
	r.st.transactions[t.ID] = copyTransaction(t)
	return nil
}

func (r *transactionRepo) Delete(_ context.Context, ownerID, id string) error {
	if r.st.transaction(ownerID, id) == nil {
		return domain.NotFound("transaction", id)
	}
	delete(r.st.transactions, id)
	return nil
}

func (r *transactionRepo) ReassignCategory(_ context.Context, ownerID, fromID string, toID *string) (int64, error) {
	if toID != nil && r.st.category(ownerID, *toID) == nil {
		return 0, domain.NotFound("category", *toID)
	}
	var n int64
	for _, t := range r.st.transactions {
		if t.OwnerID != ownerID || !t.HasCategory(fromID) {
			continue
		}
		if toID == nil {
			t.CategoryID = nil
		} else {
			id := *toID
			t.CategoryID = &id
		}
		n++
	}
	return n, nil
}

func (r *transactionRepo) DeleteByCategory(_ context.Context, ownerID, categoryID string) (int64, error) {
	var n int64
	for id, t := range r.st.transactions {
		if t.OwnerID == ownerID && t.HasCategory(categoryID) {
			delete(r.st.transactions, id)
			n++
		}
	}
	return n, nil
}

func (r *transactionRepo) DeleteAllByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for id, t := range r.st.transactions {
		if t.OwnerID == ownerID {
			delete(r.st.transactions, id)
			n++
		}
	}
	return n, nil
}
