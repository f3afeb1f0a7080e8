package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste (positivo o negativo)
)

// InventoryMovement representa un movimiento de inventario.
type InventoryMovement struct {
	ID             string
	OrganizationID string
	ProductID      string
	Type           string
	Quantity       decimal.Decimal // siempre positivo; en ADJUSTMENT es el stock contado
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	Reference      string // ID de la orden de servicio, nota de compra, etc.
	CreatedBy      string
	CreatedAt      time.Time
}
