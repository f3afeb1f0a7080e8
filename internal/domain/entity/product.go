package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un repuesto o accesorio del inventario.
// Cost es promedio ponderado calculado desde movimientos; Stock solo cambia vía movimientos.
type Product struct {
	ID             string
	OrganizationID string
	SKU            string // código único por organización
	Name           string
	Description    string
	Category       string // tela, bateria, conector, acessorio...
	Price          decimal.Decimal // precio de venta
	Cost           decimal.Decimal // costo promedio ponderado (inicia en 0)
	Stock          decimal.Decimal
	MinStock       decimal.Decimal // punto de reposición
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLowStock informa si el stock está en o bajo el mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.MinStock.GreaterThan(decimal.Zero) && p.Stock.LessThanOrEqual(p.MinStock)
}
