// Package money formatea valores monetarios en reales.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL formatea en el estilo brasileño: "R$ 1.234,56". Negativos: "-R$ 10,00".
func FormatBRL(v decimal.Decimal) string {
	neg := v.IsNegative()
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	out := "R$ " + groupThousands(intPart) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
