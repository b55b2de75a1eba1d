// Package memory implementa el almacén del libro en proceso.
// Las mutaciones se aplican sobre una copia del estado bajo un mutex exclusivo y solo se publican si
// la función termina sin error; los lectores ven siempre un estado completo (antes o después).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner                  = (*Store)(nil)
	_ analytics.SnapshotReader         = (*Store)(nil)
	_ repository.LedgerReader          = (*reader)(nil)
	_ repository.CategoryRepository    = (*categoryRepo)(nil)
	_ repository.TransactionRepository = (*transactionRepo)(nil)
)

type state struct {
	categories   map[string]*entity.Category
	transactions map[string]*entity.Transaction
}

func newState() *state {
	return &state{
		categories:   make(map[string]*entity.Category),
		transactions: make(map[string]*entity.Transaction),
	}
}

func (s *state) clone() *state {
	out := &state{
		categories:   make(map[string]*entity.Category, len(s.categories)),
		transactions: make(map[string]*entity.Transaction, len(s.transactions)),
	}
	for id, c := range s.categories {
		out.categories[id] = copyCategory(c)
	}
	for id, t := range s.transactions {
		out.transactions[id] = copyTransaction(t)
	}
	return out
}

func copyCategory(c *entity.Category) *entity.Category {
	cp := *c
	return &cp
}

func copyTransaction(t *entity.Transaction) *entity.Transaction {
	cp := *t
	if t.CategoryID != nil {
		id := *t.CategoryID
		cp.CategoryID = &id
	}
	return &cp
}

func (s *state) category(ownerID, id string) *entity.Category {
	c, ok := s.categories[id]
	if !ok || c.OwnerID != ownerID {
		return nil
	}
	return c
}

func (s *state) transaction(ownerID, id string) *entity.Transaction {
	t, ok := s.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return nil
	}
	return t
}

// names mapa id -> nombre de las categorías vivas del dueño.
func (s *state) names(ownerID string) map[string]string {
	out := make(map[string]string)
	for id, c := range s.categories {
		if c.OwnerID == ownerID {
			out[id] = c.Name
		}
	}
	return out
}

func (s *state) ownerTransactions(ownerID string) []*entity.Transaction {
	out := make([]*entity.Transaction, 0)
	for _, t := range s.transactions {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out
}

// Store almacén en memoria. El valor cero no es usable: construir con New.
type Store struct {
	mu       sync.RWMutex
	st       *state
	notifier repository.ChangeNotifier
}

// New crea un almacén vacío. notifier puede ser nil.
func New(notifier repository.ChangeNotifier) *Store {
	return &Store{st: newState(), notifier: notifier}
}

// Run aplica fn sobre una copia del estado; si fn falla la copia se descarta.
func (s *Store) Run(ctx context.Context, ownerID string, fn ledger.RepoFunc) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("begin", err)
	}
	s.mu.Lock()
	work := s.st.clone()
	err := fn(&categoryRepo{st: work}, &transactionRepo{st: work})
	if err == nil {
		s.st = work
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Notify(ownerID)
	}
	return nil
}

// View ejecuta fn bajo el cerrojo de lectura: todas las consultas ven el mismo estado.
// fn no debe llamar a Run.
func (s *Store) View(ctx context.Context, fn func(repository.LedgerReader) error) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("view", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&reader{st: s.st})
}
