package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/reparo-api/pkg/money"
)

func TestFormatBRL(t *testing.T) {
	cases := map[string]string{
		"0":        "R$ 0,00",
		"5.5":      "R$ 5,50",
		"650":      "R$ 650,00",
		"1234.56":  "R$ 1.234,56",
		"1000000":  "R$ 1.000.000,00",
		"359.6":    "R$ 359,60",
		"-10":      "-R$ 10,00",
		"1234.567": "R$ 1.234,57",
	}
	for in, want := range cases {
		assert.Equal(t, want, money.FormatBRL(decimal.RequireFromString(in)), in)
	}
}
