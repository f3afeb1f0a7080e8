package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparo-api/internal/application/dto"
)

// idealFactor stock ideal = mínimo * 1.5.
var idealFactor = decimal.NewFromFloat(1.5)

// Replenishment devuelve la lista de compra para los repuestos en o bajo su mínimo,
// ordenada por déficit relativo (stock actual / mínimo, menor primero).
func (uc *UseCase) Replenishment(ctx context.Context, orgID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	list, err := uc.products.ListLowStock(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("inventory: listar stock bajo: %w", err)
	}

	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, p := range list {
		ideal := p.MinStock.Mul(idealFactor)
		qty := ideal.Sub(p.Stock)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		out = append(out, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       p.Stock,
			MinStock:           p.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.Cost,
			EstimatedOrderCost: qty.Mul(p.Cost).Round(2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := coverage(out[i]), coverage(out[j])
		if !ri.Equal(rj) {
			return ri.LessThan(rj)
		}
		// Desempate: mayor cantidad a pedir.
		return out[i].SuggestedOrderQty.GreaterThan(out[j].SuggestedOrderQty)
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

// coverage fracción del mínimo cubierta por el stock actual.
func coverage(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if !s.MinStock.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return s.CurrentStock.Div(s.MinStock)
}
