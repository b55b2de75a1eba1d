package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Category categoría de transacciones de un usuario. El nombre es único por dueño sin distinguir mayúsculas.
type Category struct {
	ID        string
	OwnerID   string
	Name      string
	NameKey   string // NameKey(Name); clave de unicidad y de orden
	CreatedAt time.Time
}

var folder = cases.Fold()

// NormalizeName recorta espacios al inicio y al final.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NameKey devuelve la forma canónica (recortada y con case folding) para comparar nombres.
func NameKey(name string) string {
	return folder.String(NormalizeName(name))
}
