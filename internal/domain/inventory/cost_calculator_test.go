package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	// (10 * 100 + 10 * 120) / 20 = 110
	got := inventory.WeightedAverageCost(d("10"), d("100"), d("10"), d("120"))
	assert.True(t, got.Equal(d("110")), got.String())

	// stock inicial 0: el costo es el de la entrada
	got = inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, d("3"), d("45.50"))
	assert.True(t, got.Equal(d("45.5")), got.String())

	assert.True(t, inventory.WeightedAverageCost(decimal.Zero, d("1"), decimal.Zero, d("1")).IsZero())
}

func TestApply_Entrada(t *testing.T) {
	p := &entity.Product{Name: "Tela iPhone 12", Stock: d("2"), Cost: d("300")}
	res, err := inventory.Apply(p, entity.MovementTypeIN, d("2"), d("340"))
	require.NoError(t, err)
	assert.True(t, res.Stock.Equal(d("4")))
	assert.True(t, res.Cost.Equal(d("320")), res.Cost.String())
	assert.True(t, res.TotalCost.Equal(d("680")))
	// Apply no modifica el producto.
	assert.True(t, p.Stock.Equal(d("2")))
}

func TestApply_SalidaStockInsuficiente(t *testing.T) {
	p := &entity.Product{Name: "Bateria", Stock: d("1"), Cost: d("50")}
	_, err := inventory.Apply(p, entity.MovementTypeOUT, d("2"), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	res, err := inventory.Apply(p, entity.MovementTypeOUT, d("1"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Stock.IsZero())
	assert.True(t, res.TotalCost.Equal(d("50")))
}

func TestApply_Ajuste(t *testing.T) {
	p := &entity.Product{Stock: d("10"), Cost: d("5")}
	res, err := inventory.Apply(p, entity.MovementTypeADJUSTMENT, d("7"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Stock.Equal(d("7")))
	assert.True(t, res.TotalCost.Equal(d("15")))

	res, err = inventory.Apply(p, entity.MovementTypeADJUSTMENT, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Stock.IsZero())
}

func TestApply_EntradaInvalida(t *testing.T) {
	p := &entity.Product{Stock: d("1")}
	_, err := inventory.Apply(p, entity.MovementTypeIN, d("-1"), d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.Apply(p, entity.MovementTypeOUT, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.Apply(p, "TRANSFER", d("1"), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
