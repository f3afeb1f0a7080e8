package entity

import "time"

// Device representa un aparato de un cliente (celular, tablet) que entra a reparación.
type Device struct {
	ID             string
	OrganizationID string
	CustomerID     string
	Brand          string
	Model          string
	IMEI           string // IMEI o número de serie
	Color          string
	Condition      string // estado visual al recibirlo
	Password       string // código o patrón de desbloqueo informado por el cliente
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
