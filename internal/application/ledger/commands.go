package ledger

import (
	"context"
	"sync"

	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

// ErrorSlot guarda el último error de un comando hasta que se limpie explícitamente.
type ErrorSlot struct {
	mu  sync.Mutex
	err error
}

// Set registra err si no es nil. Un éxito no borra un error anterior.
func (s *ErrorSlot) Set(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Get devuelve el último error registrado (o nil).
func (s *ErrorSlot) Get() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Clear vacía el slot.
func (s *ErrorSlot) Clear() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

// Commands fachada de comandos de un dueño con slot de último error.
type Commands struct {
	ownerID      string
	categories   *CategoryUseCase
	transactions *TransactionUseCase
	slot         ErrorSlot
}

// NewCommands construye la fachada para ownerID.
func NewCommands(ownerID string, categories *CategoryUseCase, transactions *TransactionUseCase) *Commands {
	return &Commands{ownerID: ownerID, categories: categories, transactions: transactions}
}

// OwnerID dueño al que se aplican los comandos.
func (c *Commands) OwnerID() string { return c.ownerID }

// LastError último error registrado por cualquier comando.
func (c *Commands) LastError() error { return c.slot.Get() }

// ClearError limpia el último error.
func (c *Commands) ClearError() { c.slot.Clear() }

// Record registra un error producido antes de llegar a un comando (p. ej. al interpretar la petición).
func (c *Commands) Record(err error) error {
	c.slot.Set(err)
	return err
}

func (c *Commands) AddCategory(ctx context.Context, name string) (*entity.Category, error) {
	cat, err := c.categories.AddCategory(ctx, c.ownerID, name)
	c.slot.Set(err)
	return cat, err
}

func (c *Commands) RenameCategory(ctx context.Context, id, name string) (*entity.Category, error) {
	cat, err := c.categories.RenameCategory(ctx, c.ownerID, id, name)
	c.slot.Set(err)
	return cat, err
}

func (c *Commands) DeleteCategory(ctx context.Context, id string, policy DeletePolicy, target *string) (*DeleteResult, error) {
	res, err := c.categories.DeleteCategory(ctx, c.ownerID, id, policy, target)
	c.slot.Set(err)
	return res, err
}

func (c *Commands) ClearAll(ctx context.Context) (*ClearResult, error) {
	res, err := c.categories.ClearAll(ctx, c.ownerID)
	c.slot.Set(err)
	return res, err
}

func (c *Commands) AddTransaction(ctx context.Context, in TransactionInput) (*entity.Transaction, error) {
	t, err := c.transactions.AddTransaction(ctx, c.ownerID, in)
	c.slot.Set(err)
	return t, err
}

func (c *Commands) UpdateTransaction(ctx context.Context, id string, in TransactionInput) (*entity.Transaction, error) {
	t, err := c.transactions.UpdateTransaction(ctx, c.ownerID, id, in)
	c.slot.Set(err)
	return t, err
}

func (c *Commands) DeleteTransaction(ctx context.Context, id string) error {
	err := c.transactions.DeleteTransaction(ctx, c.ownerID, id)
	c.slot.Set(err)
	return err
}

// Registry entrega una única fachada Commands por dueño. Las entradas viven lo que el proceso:
// el slot de último error debe sobrevivir entre peticiones aunque esté vacío, y cada entrada
// ocupa un puntero y un mutex por dueño autenticado.
type Registry struct {
	categories   *CategoryUseCase
	transactions *TransactionUseCase

	mu    sync.Mutex
	byOwn map[string]*Commands
}

// NewRegistry construye el registro.
func NewRegistry(categories *CategoryUseCase, transactions *TransactionUseCase) *Registry {
	return &Registry{categories: categories, transactions: transactions, byOwn: make(map[string]*Commands)}
}

// For devuelve (creando si hace falta) la fachada del dueño.
func (r *Registry) For(ownerID string) *Commands {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byOwn[ownerID]
	if !ok {
		c = NewCommands(ownerID, r.categories, r.transactions)
		r.byOwn[ownerID] = c
	}
	return c
}
