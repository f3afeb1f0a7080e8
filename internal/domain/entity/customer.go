package entity

import "time"

// Customer representa un cliente de la asistencia técnica.
type Customer struct {
	ID             string
	OrganizationID string
	Name           string
	Document       string // CPF o CNPJ (solo dígitos)
	Email          string
	Phone          string
	WhatsApp       string
	Address        Address
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Address dirección postal brasileña.
type Address struct {
	ZipCode    string // CEP
	Street     string
	Number     string
	Complement string
	District   string // bairro
	City       string
	State      string // UF
}
