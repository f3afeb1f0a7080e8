package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento fiscal (simulados, Brasil).
const (
	FiscalTypeNF   = "nf"   // NF-e, nota fiscal de mercadorias (modelo 55)
	FiscalTypeNFCe = "nfce" // NFC-e, nota ao consumidor (modelo 65)
	FiscalTypeNFS  = "nfs"  // NFS-e, nota de serviços
)

// Estados del documento fiscal.
const (
	FiscalStatusDraft      = "draft"      // creado, sin número ni chave
	FiscalStatusPending    = "pending"    // importado de una fuente externa, pendiente de confirmación
	FiscalStatusAuthorized = "authorized" // autorizado (simulado)
	FiscalStatusCanceled   = "canceled"   // cancelado dentro del plazo
)

// Origen del documento.
const (
	FiscalSourceInternal = "internal"
	FiscalSourceExternal = "external"
)

// FiscalDocument representa una nota fiscal simulada.
type FiscalDocument struct {
	ID                string
	OrganizationID    string
	Type              string
	Series            int
	Number            string // vacío mientras está en draft
	Status            string
	AccessKey         string // chave de acesso de 44 dígitos, vacía en draft
	CustomerID        string
	CustomerName      string
	CustomerDocument  string
	ServiceID         string
	Description       string
	Items             []FiscalItem
	TotalValue        decimal.Decimal
	IssueDate         time.Time
	AuthorizationDate *time.Time
	CancelationDate   *time.Time
	CancelReason      string
	ReissuedFromID    string
	Source            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FiscalItem línea del documento.
type FiscalItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// IsValidFiscalType informa si el tipo es soportado.
func IsValidFiscalType(t string) bool {
	switch t {
	case FiscalTypeNF, FiscalTypeNFCe, FiscalTypeNFS:
		return true
	}
	return false
}
