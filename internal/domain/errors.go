package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los adaptadores traducen sus errores nativos a estos.
var (
	ErrValidation            = errors.New("entrada inválida")
	ErrDuplicateName         = errors.New("ya existe una categoría con ese nombre")
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidPolicyArgument = errors.New("argumento de política inválido")
	ErrStorage               = errors.New("error de almacenamiento")
)

// Validation envuelve ErrValidation con un detalle legible.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound envuelve ErrNotFound indicando el tipo de recurso y su id.
func NotFound(resource, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, id)
}

// DuplicateName envuelve ErrDuplicateName con el nombre en conflicto.
func DuplicateName(name string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateName, name)
}

// InvalidPolicyArgument envuelve ErrInvalidPolicyArgument con el motivo.
func InvalidPolicyArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPolicyArgument, fmt.Sprintf(format, args...))
}

// StorageError fallo de persistencia (incluye conectividad). Es ErrStorage y expone la causa con Unwrap.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError construye el error; si err es nil devuelve nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage.Error(), e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrStorage).
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
