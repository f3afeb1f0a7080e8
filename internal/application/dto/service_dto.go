package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateServiceRequest abre una orden de servicio.
type CreateServiceRequest struct {
	CustomerID   string          `json:"customer_id" validate:"required"`
	DeviceID     string          `json:"device_id" validate:"required"`
	TechnicianID string          `json:"technician_id"`
	Problem      string          `json:"problem" validate:"required,min=1,max=2000"`
	Price        decimal.Decimal `json:"price"`
}

// UpdateServiceRequest edición parcial de una orden (el estado cambia por otro endpoint).
type UpdateServiceRequest struct {
	TechnicianID *string          `json:"technician_id"`
	Problem      *string          `json:"problem" validate:"omitempty,min=1,max=2000"`
	Diagnosis    *string          `json:"diagnosis" validate:"omitempty,max=4000"`
	Price        *decimal.Decimal `json:"price"`
}

// UpdateServiceStatusRequest body de PATCH /api/services/:id/status.
type UpdateServiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress waiting_parts completed delivered"`
}

// AddServicePartRequest consume un repuesto del inventario en la orden.
type AddServicePartRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"` // nil = precio de venta del producto
}

// ServicePartResponse repuesto usado.
type ServicePartResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// ServiceResponse salida de una orden de servicio.
type ServiceResponse struct {
	ID           string                `json:"id"`
	Code         string                `json:"code"`
	CustomerID   string                `json:"customer_id"`
	DeviceID     string                `json:"device_id"`
	TechnicianID string                `json:"technician_id,omitempty"`
	Problem      string                `json:"problem"`
	Diagnosis    string                `json:"diagnosis,omitempty"`
	Status       string                `json:"status"`
	NextStatuses []string              `json:"next_statuses"`
	Price        decimal.Decimal       `json:"price"`
	PartsTotal   decimal.Decimal       `json:"parts_total"`
	Total        decimal.Decimal       `json:"total"`
	Parts        []ServicePartResponse `json:"parts,omitempty"`
	StartedAt    *time.Time            `json:"started_at,omitempty"`
	CompletedAt  *time.Time            `json:"completed_at,omitempty"`
	DeliveredAt  *time.Time            `json:"delivered_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ServiceListRequest filtros de GET /api/services.
type ServiceListRequest struct {
	PageRequest
	Status       string `query:"status" validate:"omitempty,oneof=pending in_progress waiting_parts completed delivered"`
	TechnicianID string `query:"technician_id"`
	CustomerID   string `query:"customer_id"`
	Search       string `query:"q"`
}

// ServiceListResponse lista paginada de órdenes.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
