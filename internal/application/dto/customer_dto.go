package dto

import "time"

// AddressDTO dirección postal.
type AddressDTO struct {
	ZipCode    string `json:"zip_code" validate:"omitempty,max=9"`
	Street     string `json:"street" validate:"omitempty,max=200"`
	Number     string `json:"number" validate:"omitempty,max=20"`
	Complement string `json:"complement" validate:"omitempty,max=100"`
	District   string `json:"district" validate:"omitempty,max=100"`
	City       string `json:"city" validate:"omitempty,max=100"`
	State      string `json:"state" validate:"omitempty,len=2"`
}

// CustomerRequest alta o edición completa de un cliente.
type CustomerRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=200"`
	Document string     `json:"document" validate:"omitempty,max=18"` // CPF o CNPJ, con o sin máscara
	Email    string     `json:"email" validate:"omitempty,email"`
	Phone    string     `json:"phone" validate:"omitempty,max=20"`
	WhatsApp string     `json:"whatsapp" validate:"omitempty,max=20"`
	Address  AddressDTO `json:"address"`
	Notes    string     `json:"notes" validate:"omitempty,max=2000"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID                string     `json:"id"`
	OrganizationID    string     `json:"organization_id"`
	Name              string     `json:"name"`
	Document          string     `json:"document,omitempty"`
	DocumentFormatted string     `json:"document_formatted,omitempty"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	WhatsApp          string     `json:"whatsapp,omitempty"`
	Address           AddressDTO `json:"address"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ContactLinksResponse enlaces de contacto listos para usar en la UI.
type ContactLinksResponse struct {
	Tel      string `json:"tel,omitempty"`
	SMS      string `json:"sms,omitempty"`
	Mailto   string `json:"mailto,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

// DeleteCustomerResponse resumen del borrado en cascada.
type DeleteCustomerResponse struct {
	ID              string `json:"id"`
	DeletedDevices  int64  `json:"deleted_devices"`
	DeletedServices int64  `json:"deleted_services"`
}

// DeviceRequest alta o edición de un aparato.
type DeviceRequest struct {
	Brand     string `json:"brand" validate:"required,min=1,max=100"`
	Model     string `json:"model" validate:"required,min=1,max=100"`
	IMEI      string `json:"imei" validate:"omitempty,max=40"`
	Color     string `json:"color" validate:"omitempty,max=50"`
	Condition string `json:"condition" validate:"omitempty,max=500"`
	Password  string `json:"password" validate:"omitempty,max=100"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
}

// DeviceResponse salida de un aparato.
type DeviceResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Brand      string    `json:"brand"`
	Model      string    `json:"model"`
	IMEI       string    `json:"imei,omitempty"`
	Color      string    `json:"color,omitempty"`
	Condition  string    `json:"condition,omitempty"`
	Password   string    `json:"password,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
