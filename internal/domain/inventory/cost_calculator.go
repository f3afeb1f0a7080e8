package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
)

// WeightedAverageCost costo promedio ponderado tras una entrada.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(stock, cost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := stock.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stock.Mul(cost).Add(inQty.Mul(inCost))
	return num.Div(sum).Round(4)
}

// Result estado del producto después de aplicar un movimiento.
type Result struct {
	Stock     decimal.Decimal
	Cost      decimal.Decimal
	UnitCost  decimal.Decimal // costo unitario registrado en el movimiento
	TotalCost decimal.Decimal
}

// Apply calcula stock y costo del producto para un movimiento.
//   - IN: suma cantidad y recalcula el costo promedio con unitCost.
//   - OUT: resta cantidad al costo actual; stock insuficiente → ErrInsufficientStock.
//   - ADJUSTMENT: quantity es el stock final contado; el costo no cambia.
func Apply(p *entity.Product, movType string, quantity, unitCost decimal.Decimal) (Result, error) {
	if quantity.IsNegative() || (movType != entity.MovementTypeADJUSTMENT && !quantity.IsPositive()) {
		return Result{}, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	switch movType {
	case entity.MovementTypeIN:
		if unitCost.IsNegative() {
			return Result{}, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
		}
		return Result{
			Stock:     p.Stock.Add(quantity),
			Cost:      WeightedAverageCost(p.Stock, p.Cost, quantity, unitCost),
			UnitCost:  unitCost,
			TotalCost: quantity.Mul(unitCost),
		}, nil
	case entity.MovementTypeOUT:
		if p.Stock.LessThan(quantity) {
			return Result{}, fmt.Errorf("%w: %s disponible %s, solicitado %s",
				domain.ErrInsufficientStock, p.Name, p.Stock.String(), quantity.String())
		}
		return Result{
			Stock:     p.Stock.Sub(quantity),
			Cost:      p.Cost,
			UnitCost:  p.Cost,
			TotalCost: quantity.Mul(p.Cost),
		}, nil
	case entity.MovementTypeADJUSTMENT:
		diff := quantity.Sub(p.Stock).Abs()
		return Result{
			Stock:     quantity,
			Cost:      p.Cost,
			UnitCost:  p.Cost,
			TotalCost: diff.Mul(p.Cost),
		}, nil
	}
	return Result{}, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movType)
}
