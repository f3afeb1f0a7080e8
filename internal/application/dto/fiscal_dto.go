package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalItemDTO línea de un documento fiscal.
type FiscalItemDTO struct {
	Description string          `json:"description" validate:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// CreateFiscalDocumentRequest crea un borrador.
type CreateFiscalDocumentRequest struct {
	Type             string          `json:"type" validate:"required,oneof=nf nfce nfs"`
	Series           int             `json:"series" validate:"omitempty,min=1,max=999"`
	CustomerID       string          `json:"customer_id"`
	CustomerName     string          `json:"customer_name" validate:"omitempty,max=200"`
	CustomerDocument string          `json:"customer_document" validate:"omitempty,max=18"`
	ServiceID        string          `json:"service_id"`
	Description      string          `json:"description" validate:"omitempty,max=2000"`
	Items            []FiscalItemDTO `json:"items" validate:"dive"`
}

// ImportFiscalDocumentRequest registra un documento emitido fuera del sistema (queda pending).
type ImportFiscalDocumentRequest struct {
	Type             string          `json:"type" validate:"required,oneof=nf nfce nfs"`
	Series           int             `json:"series" validate:"omitempty,min=1,max=999"`
	Number           string          `json:"number" validate:"omitempty,max=30"`
	AccessKey        string          `json:"access_key" validate:"omitempty,len=44,numeric"`
	CustomerName     string          `json:"customer_name" validate:"omitempty,max=200"`
	CustomerDocument string          `json:"customer_document" validate:"omitempty,max=18"`
	Description      string          `json:"description" validate:"omitempty,max=2000"`
	Items            []FiscalItemDTO `json:"items" validate:"dive"`
	TotalValue       decimal.Decimal `json:"total_value"`
	IssueDate        *time.Time      `json:"issue_date"`
}

// CancelFiscalDocumentRequest body de POST /api/fiscal-documents/:id/cancel.
type CancelFiscalDocumentRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// FiscalDocumentListRequest filtros de GET /api/fiscal-documents.
type FiscalDocumentListRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=draft pending authorized canceled"`
	Type   string `query:"type" validate:"omitempty,oneof=nf nfce nfs"`
	From   string `query:"from"` // YYYY-MM-DD
	To     string `query:"to"`   // YYYY-MM-DD, inclusive
	Search string `query:"q"`
}

// FiscalDocumentResponse salida de un documento fiscal.
type FiscalDocumentResponse struct {
	ID                 string          `json:"id"`
	Type               string          `json:"type"`
	Series             int             `json:"series"`
	Number             string          `json:"number,omitempty"`
	Status             string          `json:"status"`
	AccessKey          string          `json:"access_key,omitempty"`
	AccessKeyFormatted string          `json:"access_key_formatted,omitempty"`
	CustomerID         string          `json:"customer_id,omitempty"`
	CustomerName       string          `json:"customer_name,omitempty"`
	CustomerDocument   string          `json:"customer_document,omitempty"`
	ServiceID          string          `json:"service_id,omitempty"`
	Description        string          `json:"description,omitempty"`
	Items              []FiscalItemDTO `json:"items"`
	TotalValue         decimal.Decimal `json:"total_value"`
	IssueDate          time.Time       `json:"issue_date"`
	AuthorizationDate  *time.Time      `json:"authorization_date,omitempty"`
	CancelationDate    *time.Time      `json:"cancelation_date,omitempty"`
	CancelReason       string          `json:"cancel_reason,omitempty"`
	CancelDeadline     *time.Time      `json:"cancel_deadline,omitempty"`
	CanCancel          bool            `json:"can_cancel"`
	ReissuedFromID     string          `json:"reissued_from_id,omitempty"`
	Source             string          `json:"source"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// FiscalDocumentListResponse listado; Demo=true cuando la organización aún no tiene documentos.
type FiscalDocumentListResponse struct {
	Items []FiscalDocumentResponse `json:"items"`
	Total int                      `json:"total"`
	Demo  bool                     `json:"demo"`
}

// StatusCheckResponse resultado de la consulta externa.
type StatusCheckResponse struct {
	Document FiscalDocumentResponse `json:"document"`
	Remote   string                 `json:"remote_status"`
	Message  string                 `json:"message,omitempty"`
	Changed  bool                   `json:"changed"`
}

// ShareResponse contenido para compartir un comprobante.
type ShareResponse struct {
	Text     string `json:"text"`
	WhatsApp string `json:"whatsapp"`
	Mailto   string `json:"mailto,omitempty"`
	SMS      string `json:"sms,omitempty"`
}
