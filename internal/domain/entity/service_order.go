package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de servicio (reparación).
const (
	ServiceStatusPending      = "pending"       // recibido, sin iniciar
	ServiceStatusInProgress   = "in_progress"   // técnico trabajando
	ServiceStatusWaitingParts = "waiting_parts" // detenido por repuestos
	ServiceStatusCompleted    = "completed"     // reparación terminada, aún en tienda
	ServiceStatusDelivered    = "delivered"     // entregado al cliente
)

// ServiceStatuses en el orden en que se muestran en tableros.
var ServiceStatuses = []string{
	ServiceStatusPending,
	ServiceStatusInProgress,
	ServiceStatusWaitingParts,
	ServiceStatusCompleted,
	ServiceStatusDelivered,
}

// ServiceOrder representa una orden de servicio de reparación.
type ServiceOrder struct {
	ID             string
	OrganizationID string
	CustomerID     string
	DeviceID       string
	TechnicianID   string // vacío = sin asignar
	Code           string // OS-YYYYMMDD-NNNN
	Problem        string // defecto informado por el cliente
	Diagnosis      string
	Status         string
	Price          decimal.Decimal // mano de obra
	PartsTotal     decimal.Decimal // suma de repuestos consumidos
	StartedAt      *time.Time
	CompletedAt    *time.Time
	DeliveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Total devuelve mano de obra + repuestos.
func (s *ServiceOrder) Total() decimal.Decimal {
	return s.Price.Add(s.PartsTotal)
}

// ServicePart repuesto del inventario consumido en una orden de servicio.
type ServicePart struct {
	ID        string
	ServiceID string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}
