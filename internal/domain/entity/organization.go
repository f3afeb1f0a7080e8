package entity

import "time"

// Organization representa el tenant del sistema (una asistencia técnica).
// Todas las tablas de negocio se filtran por OrganizationID.
type Organization struct {
	ID        string
	Name      string
	Slug      string // derivado del nombre, único
	Document  string // CNPJ (con o sin máscara)
	Email     string
	Phone     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos disponibles (deben coincidir con el CHECK de la tabla organization_modules).
const (
	ModuleFiscal    = "fiscal"
	ModuleInventory = "inventory"
	ModuleReports   = "reports"
)

// DefaultModules se activan al registrar una organización.
var DefaultModules = []string{ModuleFiscal, ModuleInventory, ModuleReports}

// OrganizationModule representa la activación de un módulo en una organización.
type OrganizationModule struct {
	ID             string
	OrganizationID string
	ModuleName     string // ver constantes Module*
	IsActive       bool
	ActivatedAt    time.Time
	ExpiresAt      *time.Time // nil = sin vencimiento
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
