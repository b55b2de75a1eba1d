// Package money convierte montos decimales escritos por el usuario a unidades menores (centavos) y viceversa.
package money

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/finanzas-api/internal/domain"
)

// Scale dígitos fraccionarios de las unidades menores.
const Scale = 2

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// ParseAmount convierte "12.50", "$1,234.56" o "1234.5" a centavos con redondeo half-up a 2 decimales.
// Acepta un símbolo de moneda inicial y separadores de miles (coma). El resultado debe ser positivo.
func ParseAmount(s string) (int64, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	minor := d.Round(Scale).Shift(Scale)
	if !minor.IsPositive() {
		return 0, domain.Validation("el monto debe ser mayor que cero")
	}
	if minor.GreaterThan(maxMinor) {
		return 0, domain.Validation("monto fuera de rango")
	}
	return minor.IntPart(), nil
}

// parseDecimal limpia la entrada y la interpreta sin admitir notación exponencial.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, domain.Validation("el monto es obligatorio")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if r, size := utf8.DecodeRuneInString(s); unicode.Is(unicode.Sc, r) {
		s = s[size:]
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if !isPlainNumber(s) {
		return decimal.Zero, domain.Validation("monto no reconocido")
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.Validation("monto no reconocido")
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

func isPlainNumber(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// Format devuelve el monto con exactamente 2 decimales y '-' si es negativo: 123456 -> "1234.56".
func Format(minor int64) string {
	return decimal.New(minor, -Scale).StringFixed(Scale)
}

// FormatSigned siempre antepone el signo, como el saldo del tablero: "+1234.56", "-12.00", "+0.00".
func FormatSigned(minor int64) string {
	if minor < 0 {
		return Format(minor)
	}
	return "+" + Format(minor)
}

// Percent porcentaje de part sobre total con 1 decimal. Devuelve cero si total no es positivo.
func Percent(part, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(total), 1)
}
