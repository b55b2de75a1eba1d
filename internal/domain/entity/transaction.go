package entity

import (
	"fmt"
	"strings"
	"time"
)

// Kind tipo de flujo de caja. El signo lo da el tipo, nunca el monto.
type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

// ParseKind acepta INCOME o EXPENSE (sin distinguir mayúsculas).
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	default:
		return "", fmt.Errorf("tipo desconocido %q", s)
	}
}

// Valid indica si k es un tipo conocido.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Day fecha de calendario como días desde 1970-01-01 (UTC), sin hora.
type Day int64

const dayLayout = "2006-01-02"

// DayOf trunca t a su fecha de calendario.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// ParseDay lee una fecha con formato YYYY-MM-DD.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return DayOf(t), nil
}

// Time devuelve la medianoche UTC del día.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

func (d Day) String() string {
	return d.Time().Format(dayLayout)
}

// Transaction movimiento de ingreso o gasto. AmountMinor siempre es positivo (centavos).
type Transaction struct {
	ID          string
	OwnerID     string
	AmountMinor int64
	Kind        Kind
	Note        string // vacío = sin nota
	Date        Day
	CategoryID  *string // nil = sin categoría
	CreatedAt   time.Time
}

// Signed devuelve el monto con signo: +ingreso, -gasto.
func (t Transaction) Signed() int64 {
	if t.Kind == KindExpense {
		return -t.AmountMinor
	}
	return t.AmountMinor
}

// HasCategory indica si la transacción referencia la categoría id.
func (t Transaction) HasCategory(id string) bool {
	return t.CategoryID != nil && *t.CategoryID == id
}
