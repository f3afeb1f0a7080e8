package entity

import "time"

// Tipos de notificación.
const (
	NotificationServiceStatus = "service_status"
	NotificationServiceAssign = "service_assigned"
	NotificationFiscal        = "fiscal_document"
	NotificationLowStock      = "low_stock"
)

// Notification aviso interno para un usuario.
type Notification struct {
	ID             string
	OrganizationID string
	UserID         string
	Type           string
	Title          string
	Description    string
	Read           bool
	ActionLink     string // ruta del frontend, ej: /services/<id>
	CreatedAt      time.Time
}
